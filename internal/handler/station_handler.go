/*
Package handler provides HTTP handler functions for the station catalog and the
waiting-room occupancy aggregation.
*/
package handler

import (
	"net/http"

	"izmetro/internal/app/station"
	"izmetro/internal/pkg/errs"
	"izmetro/internal/pkg/resp"
)

// defaultCity is used when the waiting-room query omits ?city=.
const defaultCity = "spb"

// HandleWaitingRoom serves the per-station waiting/connected counts of one city.
func HandleWaitingRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		city := r.URL.Query().Get("city")
		if city == "" {
			city = defaultCity
		}

		if !deps.Catalog.HasCity(city) {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknownCity))
			return
		}

		resp.RespondOK(w, r, deps.Registry.WaitingRoom(city))
	}
}

// HandleListStations returns the static catalog, optionally narrowed with ?city=.
func HandleListStations(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		city := r.URL.Query().Get("city")
		if city == "" {
			resp.RespondOK(w, r, deps.Catalog.Cities())
			return
		}

		if !deps.Catalog.HasCity(city) {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknownCity))
			return
		}

		resp.RespondOK(w, r, map[string][]station.Station{
			"stations": deps.Catalog.Stations(city),
		})
	}
}
