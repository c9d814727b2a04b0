package models

// Route is a named page of the site
type Route struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Title string `json:"title"`
	Param string `json:"param,omitempty"` // set for detail routes
}

// Routes returns the fixed navigation surface
func Routes() []Route {
	return []Route{
		{Name: "home", Path: "/", Title: "Home"},
		{Name: "destinations", Path: "/destinations", Title: "Destinations"},
		{Name: "catalog", Path: "/catalog", Title: "Trip Catalog"},
		{Name: "about", Path: "/about", Title: "About Us"},
		{Name: "contact", Path: "/contact", Title: "Contact"},
		{Name: "feedback", Path: "/feedback", Title: "Feedback"},
		{Name: "auth", Path: "/auth", Title: "Sign In"},
		{Name: "booking", Path: "/booking", Title: "Book a Trip"},
		{Name: "detail", Path: "/destinations/{id}", Title: "Destination", Param: "id"},
	}
}
