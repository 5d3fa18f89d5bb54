package wordpress

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/artbook/internal/client/locale"
)

// AuthResponse is the body returned by the JWT credential-exchange endpoint.
type AuthResponse struct {
	Code       string   `json:"code"`
	Data       AuthData `json:"data"`
	Message    string   `json:"message"`
	StatusCode int      `json:"statusCode"`
	Success    bool     `json:"success"`
}

type AuthData struct {
	Token       string `json:"token"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	ID          int    `json:"id"`
	Nicename    string `json:"nicename"`
}

// User is the signed-in user's profile. Attributes the client does not model
// explicitly are kept in Extra.
type User struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Slug        string            `json:"slug"`
	Email       string            `json:"email,omitempty"`
	AvatarURLs  map[string]string `json:"avatar_urls,omitempty"`
	Extra       map[string]any    `json:"-"`
}

func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	var all map[string]any
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for _, k := range []string{"id", "name", "description", "slug", "email", "avatar_urls"} {
		delete(all, k)
	}
	if len(all) > 0 {
		p.Extra = all
	}

	*u = User(p)
	return nil
}

// Rendered is the WordPress wrapper around server-rendered HTML fields.
type Rendered struct {
	Rendered string `json:"rendered"`
}

// ACF holds the structured custom fields of a post (like, country,
// productivity and whatever else the site defines).
type ACF map[string]any

const (
	FieldLike         = "like"
	FieldCountry      = "country"
	FieldProductivity = "productivity"
)

// Like reports the favourite flag. The CMS has served it both as a JSON
// boolean and as the strings "true"/"false"/"1"/"0".
func (a ACF) Like() bool {
	switch v := a[FieldLike].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	case float64:
		return v != 0
	default:
		return false
	}
}

func (a ACF) Country() string {
	s, _ := a[FieldCountry].(string)
	return s
}

func (a ACF) Productivity() string {
	switch v := a[FieldProductivity].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// WithLike returns a copy of a with the favourite flag set to like.
func (a ACF) WithLike(like bool) ACF {
	out := make(ACF, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	out[FieldLike] = like
	return out
}

// Post is a CMS content record.
type Post struct {
	ID                  int      `json:"id"`
	Date                string   `json:"date,omitempty"`
	Slug                string   `json:"slug,omitempty"`
	Title               Rendered `json:"title"`
	Excerpt             Rendered `json:"excerpt"`
	Content             Rendered `json:"content"`
	FeaturedImageURL    string   `json:"featured_image_url,omitempty"`
	MobileImage         string   `json:"mobileImage,omitempty"`
	SecondFeaturedImage string   `json:"second_featured_image,omitempty"`
	Categories          []int    `json:"categories,omitempty"`
	ACF                 ACF      `json:"acf,omitempty"`
}

// PostQuery parameterises a list request. Zero values are left out of the
// query string.
type PostQuery struct {
	Page       int
	PerPage    int
	Locale     locale.Locale
	Categories []int
}

// PostPage is one page of a list response.
type PostPage struct {
	Posts      []Post
	Total      int
	TotalPages int
}
