package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/kcruz3/bubbl/pkg/api"
)

// EventServiceName is the fully-qualified name of the EventService.
const EventServiceName = "bubbl.v1.EventService"

const (
	EventServiceRecommendProcedure = "/bubbl.v1.EventService/Recommend"
	EventServiceListLocalEventsProcedure = "/bubbl.v1.EventService/ListLocalEvents"
)

// EventServiceClient is a client for the bubbl.v1.EventService service.
type EventServiceClient interface {
	Recommend(context.Context, *connect.Request[api.RecommendRequest]) (*connect.Response[api.RecommendResponse], error)
	ListLocalEvents(context.Context, *connect.Request[api.ListLocalEventsRequest]) (*connect.Response[api.ListLocalEventsResponse], error)
}

// NewEventServiceClient constructs a client for the bubbl.v1.EventService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewEventServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) EventServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &eventServiceClient{
		recommend: connect.NewClient[api.RecommendRequest, api.RecommendResponse](
			httpClient,
			baseURL+EventServiceRecommendProcedure,
			opts...,
		),
		listLocalEvents: connect.NewClient[api.ListLocalEventsRequest, api.ListLocalEventsResponse](
			httpClient,
			baseURL+EventServiceListLocalEventsProcedure,
			opts...,
		),
	}
}

type eventServiceClient struct {
	recommend *connect.Client[api.RecommendRequest, api.RecommendResponse]
	listLocalEvents *connect.Client[api.ListLocalEventsRequest, api.ListLocalEventsResponse]
}

func (c *eventServiceClient) Recommend(ctx context.Context, req *connect.Request[api.RecommendRequest]) (*connect.Response[api.RecommendResponse], error) {
	return c.recommend.CallUnary(ctx, req)
}

func (c *eventServiceClient) ListLocalEvents(ctx context.Context, req *connect.Request[api.ListLocalEventsRequest]) (*connect.Response[api.ListLocalEventsResponse], error) {
	return c.listLocalEvents.CallUnary(ctx, req)
}

// EventServiceHandler is implemented by the server side of bubbl.v1.EventService.
type EventServiceHandler interface {
	Recommend(context.Context, *connect.Request[api.RecommendRequest]) (*connect.Response[api.RecommendResponse], error)
	ListLocalEvents(context.Context, *connect.Request[api.ListLocalEventsRequest]) (*connect.Response[api.ListLocalEventsResponse], error)
}

// NewEventServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewEventServiceHandler(svc EventServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	recommendHandler := connect.NewUnaryHandler(
		EventServiceRecommendProcedure,
		svc.Recommend,
		opts...,
	)
	listLocalEventsHandler := connect.NewUnaryHandler(
		EventServiceListLocalEventsProcedure,
		svc.ListLocalEvents,
		opts...,
	)
	return "/bubbl.v1.EventService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case EventServiceRecommendProcedure:
			recommendHandler.ServeHTTP(w, r)
		case EventServiceListLocalEventsProcedure:
			listLocalEventsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedEventServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedEventServiceHandler struct{}

func (UnimplementedEventServiceHandler) Recommend(context.Context, *connect.Request[api.RecommendRequest]) (*connect.Response[api.RecommendResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bubbl.v1.EventService.Recommend is not implemented"))
}

func (UnimplementedEventServiceHandler) ListLocalEvents(context.Context, *connect.Request[api.ListLocalEventsRequest]) (*connect.Response[api.ListLocalEventsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bubbl.v1.EventService.ListLocalEvents is not implemented"))
}
