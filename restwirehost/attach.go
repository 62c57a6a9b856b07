// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwirehost

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xmidt-org/restwire"
	"github.com/xmidt-org/restwire/representation"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// HandlerGroup is the fx value group of NamedHandler components.
const HandlerGroup = "restwire.handlers"

var (
	// ErrUnknownHandler indicates a route whose handler name has no NamedHandler.
	ErrUnknownHandler = errors.New("unknown handler")

	// ErrDuplicateHandler indicates two NamedHandlers with the same name.
	ErrDuplicateHandler = errors.New("duplicate handler")
)

// NamedHandler is a handler that routes can refer to by name.
type NamedHandler struct {
	Name    string
	Handler http.Handler
}

// ProvideHandler adds a handler to HandlerGroup.
func ProvideHandler(name string, h http.Handler) fx.Option {
	return fx.Provide(
		fx.Annotated{
			Group: HandlerGroup,
			Target: func() NamedHandler {
				return NamedHandler{Name: name, Handler: h}
			},
		},
	)
}

type mediaTypeKey struct{}

// WithMediaType returns a context that holds a negotiated media type.
func WithMediaType(ctx context.Context, mt representation.MediaType) context.Context {
	return context.WithValue(ctx, mediaTypeKey{}, mt)
}

// MediaTypeFrom returns the media type negotiated for a route with Produces.
func MediaTypeFrom(ctx context.Context) (representation.MediaType, bool) {
	mt, ok := ctx.Value(mediaTypeKey{}).(representation.MediaType)
	return mt, ok
}

// produces negotiates the response media type before next runs.  Requests
// that accept none of the types get 406.
func produces(types []representation.MediaType, next http.Handler) http.Handler {
	types = append([]representation.MediaType{}, types...)
	return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
		mt, ok := representation.Negotiate(request.Header.Get("Accept"), types...)
		if !ok {
			response.WriteHeader(http.StatusNotAcceptable)
			return
		}

		next.ServeHTTP(response, request.WithContext(WithMediaType(request.Context(), mt)))
	})
}

func attachRoute(router *mux.Router, rc RouteConfig, h http.Handler) error {
	var route *mux.Route
	switch {
	case len(rc.Path) == 0:
		route = router.NewRoute()

	case rc.Prefix:
		route = router.PathPrefix(rc.Path)

	default:
		route = router.Path(rc.Path)
	}

	if len(rc.Methods) > 0 {
		route.Methods(rc.Methods...)
	}

	if len(rc.Produces) > 0 {
		h = produces(rc.Produces, h)
	}

	return route.Handler(h).GetError()
}

// Attach adds a subrouter to router for each host, in order.  Each host's
// routes refer to handlers by name.  All configuration problems are
// reported together.
func Attach(router *mux.Router, hosts []HostConfig, handlers []NamedHandler, logger *zap.Logger) error {
	logger = restwire.LoggerOrNop(logger).Named("host")

	var errs []error
	byName := make(map[string]http.Handler, len(handlers))
	for _, nh := range handlers {
		if _, exists := byName[nh.Name]; exists {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateHandler, nh.Name))
			continue
		}

		byName[nh.Name] = nh.Handler
	}

	for _, hc := range hosts {
		m, err := hc.NewMatcher()
		if err != nil {
			errs = append(errs, err)
			continue
		}

		subrouter := router.MatcherFunc(func(request *http.Request, _ *mux.RouteMatch) bool {
			return m.Matches(request)
		}).Subrouter()

		for _, rc := range hc.Routes {
			h, ok := byName[rc.Handler]
			if !ok {
				errs = append(errs, fmt.Errorf("%w: %q, in host %q", ErrUnknownHandler, rc.Handler, hc.Name))
				continue
			}

			if err := attachRoute(subrouter, rc, h); err != nil {
				errs = append(errs, fmt.Errorf("invalid route %q in host %q: %w", rc.Path, hc.Name, err))
				continue
			}

			logger.Info("route attached",
				zap.String("host", hc.Name),
				zap.String("path", rc.Path),
				zap.Bool("prefix", rc.Prefix),
				zap.Strings("methods", rc.Methods),
				zap.String("handler", rc.Handler),
			)
		}
	}

	return multierr.Combine(errs...)
}

// AttachKey unmarshals a []HostConfig from hostsKey and attaches it to the
// router named routerName, using the handlers in HandlerGroup.  An empty
// routerName selects the unnamed router.
func AttachKey(routerName, hostsKey string) fx.Option {
	routerTag := ""
	if len(routerName) > 0 {
		routerTag = fmt.Sprintf("name:%q", routerName)
	}

	return fx.Invoke(
		fx.Annotate(
			func(router *mux.Router, u restwire.Unmarshaler, handlers []NamedHandler, logger *zap.Logger) error {
				var hosts []HostConfig
				if err := u.UnmarshalKey(hostsKey, &hosts); err != nil {
					return err
				}

				return Attach(router, hosts, handlers, logger)
			},
			fx.ParamTags(
				routerTag,
				"",
				fmt.Sprintf("group:%q", HandlerGroup),
				`optional:"true"`,
			),
		),
	)
}
