package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
	SecurityAdmin                       // Access token with the admin role
)

// EndpointSecurityConfig maps "METHOD path-template" to its required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Catalogue - Public
	"GET /api/v1/vehicles":                 SecurityPublic,
	"GET /api/v1/vehicles/premium":         SecurityPublic,
	"GET /api/v1/vehicles/{registration}":  SecurityPublic,
	"POST /api/v1/quotes":                  SecurityPublic,
	"GET /api/v1/subscriptions/plans":      SecurityPublic,
	"GET /api/v1/settings/currency":        SecurityPublic,
	"GET /api/v1/settings/currency/events": SecurityPublic,
	"GET /api/v1/geocode/reverse":          SecurityPublic,
	"GET /api/v1/downloads/{key}":          SecurityPublic,
	"PUT /api/v1/uploads/{token}":          SecurityPublic, // Presigned token
	"POST /api/v1/webhooks/stripe":         SecurityPublic, // Verified by signature
	"GET /healthz":                         SecurityPublic,

	// Bookings - Access Protected
	"POST /api/v1/bookings":             SecurityAccess,
	"GET /api/v1/bookings":              SecurityAccess,
	"POST /api/v1/bookings/{id}/cancel": SecurityAccess,

	// Loyalty - Access Protected
	"GET /api/v1/loyalty/benefits":             SecurityAccess,
	"POST /api/v1/loyalty/benefits/{id}/claim": SecurityAccess,
	"DELETE /api/v1/loyalty/benefits/{id}":     SecurityAccess,

	// Customers - Access Protected
	"GET /api/v1/customers/me":        SecurityAccess,
	"PUT /api/v1/customers/me":        SecurityAccess,
	"DELETE /api/v1/customers/me":     SecurityAccess,
	"GET /api/v1/customers/me/points": SecurityAccess,

	// Subscriptions - Access Protected
	"POST /api/v1/subscriptions": SecurityAccess,

	// Staff signup needs the invitee's own identity token
	"POST /api/v1/staff/signup":     SecurityAccess,
	"GET /api/v1/notifications":     SecurityAccess,
	"PUT /api/v1/settings/currency": SecurityAccess, // Caller's own preference

	// Admin Protected
	"POST /api/v1/staff/invitations":              SecurityAdmin,
	"PUT /api/v1/settings/currency/default":       SecurityAdmin,
	"POST /api/v1/vehicles/{id}/pictures":         SecurityAdmin,
	"POST /api/v1/vehicles/{id}/pictures/confirm": SecurityAdmin,
}

// GetSecurityLevel returns the security level for a route
func GetSecurityLevel(method, pathTemplate string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method+" "+pathTemplate]; exists {
		return level
	}
	// Default to access for unknown endpoints
	return SecurityAccess
}
