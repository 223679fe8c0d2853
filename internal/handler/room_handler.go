/*
Package handler provides the HTTP handler for joining a station group.
*/
package handler

import (
	"net/http"

	"izmetro/internal/app/user"
	"izmetro/internal/pkg/errs"
	"izmetro/internal/pkg/logx"
	"izmetro/internal/pkg/req"
	"izmetro/internal/pkg/resp"
)

// JoinStationInput is the body of POST /rooms/join-station.
type JoinStationInput struct {
	UserID  string `json:"userId" validate:"required,uuid4"`
	Station string `json:"station" validate:"required,max=128"`
}

// JoinStationResponse lists the group the user just joined.
type JoinStationResponse struct {
	Success bool        `json:"success"`
	Users   []user.User `json:"users"`
}

// HandleJoinStation connects the user to the group of a station in their city.
func HandleJoinStation(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input JoinStationInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		current, customErr := deps.Registry.Get(input.UserID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !deps.Catalog.HasStation(current.City, input.Station) {
			logx.Warn("Join for station outside the user's city",
				"user_id", input.UserID,
				"city", current.City,
				"station", input.Station,
			)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknownStation, input.Station))
			return
		}

		members, customErr := deps.Registry.JoinStation(input.UserID, input.Station)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondOK(w, r, JoinStationResponse{Success: true, Users: members})
	}
}
