// Package nav computes which routes are visible and reachable for the
// current identity. It is pure data logic: no rendering, no HTTP, so every
// rule the header and the page-level gates enforce lives in one testable
// place instead of scattered boolean checks.
package nav

import "auracare/internal/domain"

// RouteID names a navigable view.
type RouteID string

const (
	RouteHome           RouteID = "home"
	RouteAbout          RouteID = "about"
	RouteLogin          RouteID = "login"
	RouteRegister       RouteID = "register"
	RouteDonor          RouteID = "donor"
	RouteReceiver       RouteID = "receiver"
	RouteDonorsList     RouteID = "donors-list"
	RouteReceiversList  RouteID = "receivers-list"
	RouteContact        RouteID = "contact"
	RoutePremium        RouteID = "premium"
	RoutePaymentSuccess RouteID = "payment-success"
	RouteBookDoctor     RouteID = "book-doctor"
	RouteProfile        RouteID = "profile"
	RouteAdmin          RouteID = "admin"
)

// VisibleRoutes returns the navigation entries to show, nil identity meaning
// unauthenticated. Rules:
//   - unauthenticated: public pages plus login/register; the donors list is
//     public discovery.
//   - the Donor entry is hidden for receivers, the Receiver entry for
//     donors; unknown roles see both (permissive fallback), and the two are
//     never both hidden.
//   - donors (and admins) additionally get the Receivers List.
//   - exactly one of premium / consultation shows whenever authenticated,
//     picked by isPremium; neither shows when unauthenticated.
//   - the admin dashboard entry shows only for admins.
func VisibleRoutes(identity *domain.Identity) []RouteID {
	routes := []RouteID{RouteHome, RouteAbout}

	if identity == nil {
		return append(routes,
			RouteDonorsList, RouteContact, RouteLogin, RouteRegister)
	}

	if identity.Role != domain.RoleReceiver {
		routes = append(routes, RouteDonor)
	}
	if identity.Role != domain.RoleDonor {
		routes = append(routes, RouteReceiver)
	}
	if identity.Role == domain.RoleDonor || identity.Role == domain.RoleAdmin {
		routes = append(routes, RouteReceiversList)
	}
	routes = append(routes, RouteDonorsList, RouteContact)

	if identity.IsPremium {
		routes = append(routes, RouteBookDoctor)
	} else {
		routes = append(routes, RoutePremium)
	}
	if identity.Role == domain.RoleAdmin {
		routes = append(routes, RouteAdmin)
	}
	return append(routes, RouteProfile)
}

// Visible reports whether the route appears in the navigation for identity.
func Visible(identity *domain.Identity, route RouteID) bool {
	for _, r := range VisibleRoutes(identity) {
		if r == route {
			return true
		}
	}
	return false
}

// CanAccess reports whether direct navigation to the route is allowed.
// Admins pass every role gate (preserved permissive behavior); a role that
// is neither donor, receiver nor admin passes both registration gates.
func CanAccess(identity *domain.Identity, route RouteID) bool {
	switch route {
	case RouteHome, RouteAbout, RouteLogin, RouteRegister, RouteDonorsList:
		return true
	}

	if identity == nil {
		return false
	}

	switch route {
	case RouteDonor:
		return identity.Role == domain.RoleDonor || identity.Role == domain.RoleAdmin || !identity.Role.Known()
	case RouteReceiver:
		return identity.Role == domain.RoleReceiver || identity.Role == domain.RoleAdmin || !identity.Role.Known()
	case RouteReceiversList:
		return identity.Role == domain.RoleDonor || identity.Role == domain.RoleAdmin
	case RouteAdmin:
		return identity.Role == domain.RoleAdmin
	case RouteBookDoctor:
		return identity.IsPremium
	default:
		// contact, premium, payment-success, profile: any authenticated user.
		return true
	}
}

// LandingRoute is where a fresh login lands: admins go straight to the
// dashboard, everyone else goes home.
func LandingRoute(identity *domain.Identity) RouteID {
	if identity != nil && identity.Role == domain.RoleAdmin {
		return RouteAdmin
	}
	return RouteHome
}

// RedirectTarget resolves where to send a user who cannot access route:
// login when unauthenticated, the premium upsell when consultation is gated
// on premium, home (with a warning at the call site) for role mismatches.
// ok is false when no redirect is needed.
func RedirectTarget(identity *domain.Identity, route RouteID) (RouteID, bool) {
	if CanAccess(identity, route) {
		return "", false
	}
	if identity == nil {
		return RouteLogin, true
	}
	if route == RouteBookDoctor {
		return RoutePremium, true
	}
	return RouteHome, true
}
