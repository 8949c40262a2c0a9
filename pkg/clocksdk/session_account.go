package clocksdk

import (
	"context"
	"net/http"
)

// Profile returns the signed-in user's profile.
// Requires: profile:read scope
func (s *Session) Profile(ctx context.Context) (*ProfileResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/me", nil, nil, "profile:read")
	if err != nil {
		return nil, err
	}

	var profile ProfileResponse
	if err := decodeJSON(resp, &profile, http.StatusOK); err != nil {
		return nil, err
	}

	return &profile, nil
}

// UpdateProfile changes the display name and/or contracted weekly hours.
// Requires: profile:write scope
func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*ProfileResponse, error) {
	body, headers, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPatch, "/v1/me", body, headers, "profile:write")
	if err != nil {
		return nil, err
	}

	var profile ProfileResponse
	if err := decodeJSON(resp, &profile, http.StatusOK); err != nil {
		return nil, err
	}

	return &profile, nil
}

// DeleteAccount removes the user together with every record. The session is
// unusable afterwards.
// Requires: profile:write scope
func (s *Session) DeleteAccount(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/me", nil, nil, "profile:write")
	if err != nil {
		return err
	}

	return checkStatus(resp, http.StatusNoContent)
}
