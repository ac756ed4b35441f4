package jwttoken

import "handover/internal/platform/middleware"

// CredentialsValidator adapts the Service to the transport middleware
// contract so the middleware package stays free of JWT details.
type CredentialsValidator struct {
	Service *Service
}

func (v CredentialsValidator) ValidateClientCredentials(tokenString string) (*middleware.ClientCredentials, error) {
	claims, err := v.Service.ValidateClientCredentials(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.ClientCredentials{
		ClientID:  claims.ClientID,
		GrantType: claims.GrantType,
	}, nil
}
