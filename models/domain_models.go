package models

// DomainSearchQuery binds the query string of GET /domain/search.
type DomainSearchQuery struct {
	Domain string `form:"domain" example:"example.com"`
	Source string `form:"source" example:"internal" enums:"internal,external"`
}
