package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/kcruz3/bubbl/pkg/api"
)

// SwipeServiceName is the fully-qualified name of the SwipeService.
const SwipeServiceName = "bubbl.v1.SwipeService"

const (
	SwipeServiceSwipeProcedure = "/bubbl.v1.SwipeService/Swipe"
)

// SwipeServiceClient is a client for the bubbl.v1.SwipeService service.
type SwipeServiceClient interface {
	Swipe(context.Context, *connect.Request[api.SwipeRequest]) (*connect.Response[api.SwipeResponse], error)
}

// NewSwipeServiceClient constructs a client for the bubbl.v1.SwipeService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewSwipeServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SwipeServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &swipeServiceClient{
		swipe: connect.NewClient[api.SwipeRequest, api.SwipeResponse](
			httpClient,
			baseURL+SwipeServiceSwipeProcedure,
			opts...,
		),
	}
}

type swipeServiceClient struct {
	swipe *connect.Client[api.SwipeRequest, api.SwipeResponse]
}

func (c *swipeServiceClient) Swipe(ctx context.Context, req *connect.Request[api.SwipeRequest]) (*connect.Response[api.SwipeResponse], error) {
	return c.swipe.CallUnary(ctx, req)
}

// SwipeServiceHandler is implemented by the server side of bubbl.v1.SwipeService.
type SwipeServiceHandler interface {
	Swipe(context.Context, *connect.Request[api.SwipeRequest]) (*connect.Response[api.SwipeResponse], error)
}

// NewSwipeServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSwipeServiceHandler(svc SwipeServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	swipeHandler := connect.NewUnaryHandler(
		SwipeServiceSwipeProcedure,
		svc.Swipe,
		opts...,
	)
	return "/bubbl.v1.SwipeService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SwipeServiceSwipeProcedure:
			swipeHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSwipeServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSwipeServiceHandler struct{}

func (UnimplementedSwipeServiceHandler) Swipe(context.Context, *connect.Request[api.SwipeRequest]) (*connect.Response[api.SwipeResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bubbl.v1.SwipeService.Swipe is not implemented"))
}
