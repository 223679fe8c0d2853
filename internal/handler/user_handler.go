/*
Package handler provides HTTP handler functions for the user record endpoints:
create, list, fetch, partial update, delete and liveness ping.
*/
package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"izmetro/internal/app/user"
	"izmetro/internal/pkg/errs"
	"izmetro/internal/pkg/logx"
	"izmetro/internal/pkg/randx"
	"izmetro/internal/pkg/req"
	"izmetro/internal/pkg/resp"
)

// CreateUserInput is the body of POST /users.
type CreateUserInput struct {
	Name        string `json:"name" validate:"required,max=64"`
	City        string `json:"city" validate:"required,max=32"`
	Gender      string `json:"gender" validate:"required,oneof=male female"`
	Station     string `json:"station" validate:"max=128"`
	Wagon       string `json:"wagon" validate:"max=32"`
	Color       string `json:"color" validate:"max=64"`
	ColorCode   string `json:"colorCode" validate:"omitempty,hexcolor"`
	Status      string `json:"status" validate:"max=280"`
	Timer       string `json:"timer" validate:"max=16"`
	TimerTotal  int    `json:"timerTotal" validate:"min=0,max=1440"`
	Online      *bool  `json:"online"`
	IsWaiting   *bool  `json:"isWaiting"`
	IsConnected bool   `json:"isConnected"`
	Position    string `json:"position" validate:"max=64"`
	Mood        string `json:"mood" validate:"max=64"`
}

// toUser converts the input into a record. A freshly registered rider is online and
// waiting unless the body says otherwise.
func (in CreateUserInput) toUser() user.User {
	u := user.User{
		Name:        strings.TrimSpace(in.Name),
		City:        in.City,
		Gender:      in.Gender,
		Station:     in.Station,
		Wagon:       in.Wagon,
		Color:       in.Color,
		ColorCode:   in.ColorCode,
		Status:      in.Status,
		Timer:       in.Timer,
		TimerTotal:  in.TimerTotal,
		Online:      true,
		IsWaiting:   true,
		IsConnected: in.IsConnected,
		Position:    in.Position,
		Mood:        in.Mood,
	}
	if in.Online != nil {
		u.Online = *in.Online
	}
	if in.IsWaiting != nil {
		u.IsWaiting = *in.IsWaiting
	}
	if u.ColorCode == "" {
		if c, ok := user.LookupColor(u.Color); ok {
			u.ColorCode = c.Code
		}
	}
	if u.Status == "" {
		u.Status = user.DefaultStatus
	}
	return u
}

// HandleCreateUser registers a new rider.
func HandleCreateUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateUserInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !deps.Catalog.HasCity(input.City) {
			logx.Warn("Registration for unknown city", "city", input.City)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknownCity))
			return
		}

		if input.Station != "" && !deps.Catalog.HasStation(input.City, input.Station) {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknownStation, input.Station))
			return
		}

		created := deps.Registry.Create(input.toUser())
		resp.RespondCreated(w, r, created)
	}
}

// HandleListUsers returns every user record in creation order.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondOK(w, r, deps.Registry.List())
	}
}

// HandleGetUser returns a single user record.
func HandleGetUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userIDParam(w, r)
		if !ok {
			return
		}

		u, customErr := deps.Registry.Get(id)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		resp.RespondOK(w, r, u)
	}
}

// HandleUpdateUser applies a partial update and returns the resulting record.
func HandleUpdateUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userIDParam(w, r)
		if !ok {
			return
		}

		var patch user.Patch
		if customErr := req.BindJSON(w, r, &patch); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if patch.City != nil && !deps.Catalog.HasCity(*patch.City) {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknownCity))
			return
		}

		if patch.Station != nil && *patch.Station != "" {
			current, customErr := deps.Registry.Get(id)
			if customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}

			city := current.City
			if patch.City != nil {
				city = *patch.City
			}
			if !deps.Catalog.HasStation(city, *patch.Station) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknownStation, *patch.Station))
				return
			}
		}

		if patch.Color != nil && patch.ColorCode == nil {
			if c, ok := user.LookupColor(*patch.Color); ok {
				patch.ColorCode = user.Ptr(c.Code)
			}
		}

		updated, customErr := deps.Registry.Update(id, patch)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		resp.RespondOK(w, r, updated)
	}
}

// HandleDeleteUser removes a user record.
func HandleDeleteUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userIDParam(w, r)
		if !ok {
			return
		}

		if customErr := deps.Registry.Delete(id); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		resp.RespondSuccess(w, r)
	}
}

// HandlePingUser records that the user's client is still polling.
func HandlePingUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userIDParam(w, r)
		if !ok {
			return
		}

		if customErr := deps.Registry.Ping(id); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		resp.RespondSuccess(w, r)
	}
}

// userIDParam extracts and checks the {id} URL parameter, answering the request itself
// when the id is malformed.
func userIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !randx.IsValidUserID(id) {
		resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
		return "", false
	}
	return id, true
}
