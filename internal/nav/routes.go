// Package nav is the client-side router: the route table, the access
// guard and the navigation links.
package nav

import (
	"context"
	"errors"
	"slices"

	"storefront/internal/model"
	"storefront/internal/session"
)

// Client-side routes.
const (
	RouteHome         = "/"
	RouteLogin        = "/login"
	RouteRegister     = "/register"
	RouteCart         = "/cart"
	RouteReview       = "/review"
	RouteEmployee     = "/employee"
	RouteEdit         = "/edit"
	RouteOrders       = "/orders"
	RouteInit         = "/init"
	RouteReviews      = "/reviews"
	RouteUnauthorized = "/unauthorized"
)

// ErrUnknownRoute is returned for paths outside the route table.
var ErrUnknownRoute = errors.New("unknown route")

// Access is the level of authentication a route requires.
type Access int

const (
	Public Access = iota
	Authenticated
	Restricted
)

// Route is one entry of the route table.
type Route struct {
	Path   string
	Title  string
	Access Access
	// Roles lists who may open a Restricted route.
	Roles []model.Role
}

var employeeOnly = []model.Role{model.RoleEmployee}

var routes = []Route{
	{Path: RouteHome, Title: "Products", Access: Public},
	{Path: RouteLogin, Title: "Login", Access: Public},
	{Path: RouteRegister, Title: "Register", Access: Public},
	{Path: RouteCart, Title: "Cart", Access: Public},
	{Path: RouteUnauthorized, Title: "Unauthorized", Access: Public},
	{Path: RouteReview, Title: "Add review", Access: Authenticated},
	{Path: RouteEmployee, Title: "Employee panel", Access: Restricted, Roles: employeeOnly},
	{Path: RouteEdit, Title: "Edit products", Access: Restricted, Roles: employeeOnly},
	{Path: RouteOrders, Title: "Orders", Access: Restricted, Roles: employeeOnly},
	{Path: RouteInit, Title: "Initialize database", Access: Restricted, Roles: employeeOnly},
	{Path: RouteReviews, Title: "Reviews", Access: Restricted, Roles: employeeOnly},
}

// Routes returns the route table.
func Routes() []Route {
	return slices.Clone(routes)
}

// Lookup finds a route by path.
func Lookup(path string) (Route, bool) {
	for _, r := range routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// ClaimsSource exposes the decoded session token.
type ClaimsSource interface {
	Claims(ctx context.Context) (*session.Claims, bool)
}

// Decision is the outcome of the access guard.
type Decision struct {
	Allowed bool
	// Redirect is set when Allowed is false.
	Redirect string
}

// Guard decides whether path may be shown. Without a token the client is
// sent to login; with a role the route does not admit it, to unauthorized.
func Guard(ctx context.Context, src ClaimsSource, path string) (Decision, error) {
	route, ok := Lookup(path)
	if !ok {
		return Decision{}, ErrUnknownRoute
	}
	if route.Access == Public {
		return Decision{Allowed: true}, nil
	}

	claims, ok := src.Claims(ctx)
	if !ok {
		return Decision{Redirect: RouteLogin}, nil
	}
	if route.Access == Restricted && !slices.Contains(route.Roles, claims.Role) {
		return Decision{Redirect: RouteUnauthorized}, nil
	}
	return Decision{Allowed: true}, nil
}

// Link is one navigation entry.
type Link struct {
	Path  string
	Title string
}

// Links returns the navigation entries for the current role. authenticated
// is false when there is no session.
func Links(role model.Role, authenticated bool) []Link {
	links := []Link{
		{Path: RouteHome, Title: "Products"},
		{Path: RouteCart, Title: "Cart"},
	}
	if !authenticated {
		return append(links,
			Link{Path: RouteLogin, Title: "Login"},
			Link{Path: RouteRegister, Title: "Register"},
		)
	}
	if role == model.RoleEmployee {
		links = append(links, Link{Path: RouteEmployee, Title: "Employee panel"})
	}
	return append(links,
		Link{Path: RouteReview, Title: "Add review"},
		Link{Path: "logout", Title: "Logout"},
	)
}

// EmployeeLinks are the destinations of the employee panel.
func EmployeeLinks() []Link {
	return []Link{
		{Path: RouteEdit, Title: "Edit products"},
		{Path: RouteOrders, Title: "Orders"},
		{Path: RouteInit, Title: "Initialize database"},
		{Path: RouteReviews, Title: "Reviews"},
	}
}
