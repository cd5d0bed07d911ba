package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/api/responses"
	"github.com/preserveapp/preserve-backend/api/validators"
	"github.com/preserveapp/preserve-backend/internal/locations"
	pkgerrors "github.com/preserveapp/preserve-backend/pkg/errors"
	"github.com/preserveapp/preserve-backend/pkg/logger"
	"github.com/preserveapp/preserve-backend/pkg/mapbox"
)

// LocationCreate geocodes the address and stores the location. A failed
// geocode writes nothing.
func LocationCreate(svc *locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "locations service unavailable"))
			return
		}

		var payload locations.CreateLocationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// LocationDetail loads a stored location.
func LocationDetail(svc *locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "locations service unavailable"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "locationId"))
		locationID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location id"))
			return
		}

		result, err := svc.Get(r.Context(), locationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// DrivingRoute proxies a driving distance/duration lookup between two
// coordinate pairs.
func DrivingRoute(svc *locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "locations service unavailable"))
			return
		}

		origin, err := parseCoordinates(r, "origin_lat", "origin_lng")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		destination, err := parseCoordinates(r, "dest_lat", "dest_lng")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.DrivingRoute(r.Context(), origin, destination)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parseCoordinates(r *http.Request, latKey, lngKey string) (mapbox.Coordinates, error) {
	lat, err := validators.ParseQueryFloat(r, latKey, true, 0)
	if err != nil {
		return mapbox.Coordinates{}, err
	}
	lng, err := validators.ParseQueryFloat(r, lngKey, true, 0)
	if err != nil {
		return mapbox.Coordinates{}, err
	}
	if lat < -90 || lat > 90 {
		return mapbox.Coordinates{}, pkgerrors.New(pkgerrors.CodeValidation, "latitude out of range").WithDetails(map[string]any{"field": latKey})
	}
	if lng < -180 || lng > 180 {
		return mapbox.Coordinates{}, pkgerrors.New(pkgerrors.CodeValidation, "longitude out of range").WithDetails(map[string]any{"field": lngKey})
	}
	return mapbox.Coordinates{Latitude: lat, Longitude: lng}, nil
}
