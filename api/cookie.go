package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shiroyk/crumb"
	"github.com/shiroyk/crumb/lib/utils"
	"github.com/shiroyk/crumb/store/header"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// CodecFunc returns the codec serving the request.
type CodecFunc func(echo.Context) *crumb.Codec

// Cookie a cookie in responses.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SetRequest the body of a cookie write.
type SetRequest struct {
	Value     any        `json:"value"`
	Expires   *int       `json:"expires,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Domain    string     `json:"domain,omitempty"`
	Path      string     `json:"path,omitempty"`
	Secure    *bool      `json:"secure,omitempty"`
	Raw       *bool      `json:"raw,omitempty"`
}

// DirectiveResponse the directive written to the store.
type DirectiveResponse struct {
	Cookie string `json:"cookie"`
}

type handler struct {
	codec *crumb.Codec
}

func (h *handler) storeCodec(echo.Context) *crumb.Codec { return h.codec }

func (h *handler) sessionCodec(c echo.Context) *crumb.Codec {
	return crumb.NewCodec(header.New(c.Request(), c.Response()))
}

// RouteCookie the cookie routes
func RouteCookie(g *echo.Group, codecFor CodecFunc, defaults crumb.Options) {
	r := &cookieRoutes{codecFor: codecFor, defaults: defaults}
	g.GET("", r.list)
	g.GET("/:name", r.get)
	g.PUT("/:name", r.set)
	g.DELETE("/:name", r.remove)
}

type cookieRoutes struct {
	codecFor CodecFunc
	defaults crumb.Options
}

func (r *cookieRoutes) list(c echo.Context) error {
	jar := r.codecFor(c).All(readOptions(c))
	names := maps.Keys(jar)
	slices.Sort(names)

	cookies := make([]Cookie, len(names))
	for i, name := range names {
		cookies[i] = Cookie{Name: name, Value: jar[name]}
	}
	return c.JSON(http.StatusOK, cookies)
}

func (r *cookieRoutes) get(c echo.Context) error {
	name := c.Param("name")
	value, ok, err := r.codecFor(c).Lookup(name, readOptions(c))
	if err != nil {
		return err
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "cookie "+strconv.Quote(name)+" not found")
	}
	return c.JSON(http.StatusOK, Cookie{Name: name, Value: value})
}

func (r *cookieRoutes) set(c echo.Context) error {
	req := new(SetRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	directive, err := r.codecFor(c).Set(c.Param("name"), req.Value, req.options(r.defaults))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DirectiveResponse{directive})
}

func (r *cookieRoutes) remove(c echo.Context) error {
	opt := r.defaults
	opt.Domain = utils.ZeroOr(c.QueryParam("domain"), opt.Domain)
	opt.Path = utils.ZeroOr(c.QueryParam("path"), opt.Path)
	directive, err := r.codecFor(c).Remove(c.Param("name"), opt)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DirectiveResponse{directive})
}

func readOptions(c echo.Context) crumb.Options {
	raw, _ := strconv.ParseBool(c.QueryParam("raw"))
	return crumb.Options{Raw: raw}
}

// options merges the request over the defaults.
func (req *SetRequest) options(defaults crumb.Options) crumb.Options {
	opt := defaults
	switch {
	case req.ExpiresAt != nil:
		opt.Expires = crumb.At(*req.ExpiresAt)
	case req.Expires != nil:
		opt.Expires = crumb.Days(*req.Expires)
	}
	if req.Domain != "" {
		opt.Domain = req.Domain
	}
	if req.Path != "" {
		opt.Path = req.Path
	}
	if req.Secure != nil {
		opt.Secure = *req.Secure
	}
	if req.Raw != nil {
		opt.Raw = *req.Raw
	}
	return opt
}
