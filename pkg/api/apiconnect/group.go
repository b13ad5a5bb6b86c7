package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/kcruz3/bubbl/pkg/api"
)

// GroupServiceName is the fully-qualified name of the GroupService.
const GroupServiceName = "bubbl.v1.GroupService"

const (
	GroupServiceGetGroupProcedure = "/bubbl.v1.GroupService/GetGroup"
	GroupServiceListMyGroupsProcedure = "/bubbl.v1.GroupService/ListMyGroups"
	GroupServiceListMembersProcedure = "/bubbl.v1.GroupService/ListMembers"
	GroupServiceSendMessageProcedure = "/bubbl.v1.GroupService/SendMessage"
	GroupServiceListMessagesProcedure = "/bubbl.v1.GroupService/ListMessages"
)

// GroupServiceClient is a client for the bubbl.v1.GroupService service.
type GroupServiceClient interface {
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListMyGroups(context.Context, *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	SendMessage(context.Context, *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error)
	ListMessages(context.Context, *connect.Request[api.ListMessagesRequest]) (*connect.Response[api.ListMessagesResponse], error)
}

// NewGroupServiceClient constructs a client for the bubbl.v1.GroupService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &groupServiceClient{
		getGroup: connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](
			httpClient,
			baseURL+GroupServiceGetGroupProcedure,
			opts...,
		),
		listMyGroups: connect.NewClient[api.ListMyGroupsRequest, api.ListMyGroupsResponse](
			httpClient,
			baseURL+GroupServiceListMyGroupsProcedure,
			opts...,
		),
		listMembers: connect.NewClient[api.ListMembersRequest, api.ListMembersResponse](
			httpClient,
			baseURL+GroupServiceListMembersProcedure,
			opts...,
		),
		sendMessage: connect.NewClient[api.SendMessageRequest, api.SendMessageResponse](
			httpClient,
			baseURL+GroupServiceSendMessageProcedure,
			opts...,
		),
		listMessages: connect.NewClient[api.ListMessagesRequest, api.ListMessagesResponse](
			httpClient,
			baseURL+GroupServiceListMessagesProcedure,
			opts...,
		),
	}
}

type groupServiceClient struct {
	getGroup *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listMyGroups *connect.Client[api.ListMyGroupsRequest, api.ListMyGroupsResponse]
	listMembers *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	sendMessage *connect.Client[api.SendMessageRequest, api.SendMessageResponse]
	listMessages *connect.Client[api.ListMessagesRequest, api.ListMessagesResponse]
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListMyGroups(ctx context.Context, req *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error) {
	return c.listMyGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *groupServiceClient) SendMessage(ctx context.Context, req *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error) {
	return c.sendMessage.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListMessages(ctx context.Context, req *connect.Request[api.ListMessagesRequest]) (*connect.Response[api.ListMessagesResponse], error) {
	return c.listMessages.CallUnary(ctx, req)
}

// GroupServiceHandler is implemented by the server side of bubbl.v1.GroupService.
type GroupServiceHandler interface {
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListMyGroups(context.Context, *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	SendMessage(context.Context, *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error)
	ListMessages(context.Context, *connect.Request[api.ListMessagesRequest]) (*connect.Response[api.ListMessagesResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getGroupHandler := connect.NewUnaryHandler(
		GroupServiceGetGroupProcedure,
		svc.GetGroup,
		opts...,
	)
	listMyGroupsHandler := connect.NewUnaryHandler(
		GroupServiceListMyGroupsProcedure,
		svc.ListMyGroups,
		opts...,
	)
	listMembersHandler := connect.NewUnaryHandler(
		GroupServiceListMembersProcedure,
		svc.ListMembers,
		opts...,
	)
	sendMessageHandler := connect.NewUnaryHandler(
		GroupServiceSendMessageProcedure,
		svc.SendMessage,
		opts...,
	)
	listMessagesHandler := connect.NewUnaryHandler(
		GroupServiceListMessagesProcedure,
		svc.ListMessages,
		opts...,
	)
	return "/bubbl.v1.GroupService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupServiceGetGroupProcedure:
			getGroupHandler.ServeHTTP(w, r)
		case GroupServiceListMyGroupsProcedure:
			listMyGroupsHandler.ServeHTTP(w, r)
		case GroupServiceListMembersProcedure:
			listMembersHandler.ServeHTTP(w, r)
		case GroupServiceSendMessageProcedure:
			sendMessageHandler.ServeHTTP(w, r)
		case GroupServiceListMessagesProcedure:
			listMessagesHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedGroupServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGroupServiceHandler struct{}

func (UnimplementedGroupServiceHandler) GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bubbl.v1.GroupService.GetGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) ListMyGroups(context.Context, *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bubbl.v1.GroupService.ListMyGroups is not implemented"))
}

func (UnimplementedGroupServiceHandler) ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bubbl.v1.GroupService.ListMembers is not implemented"))
}

func (UnimplementedGroupServiceHandler) SendMessage(context.Context, *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bubbl.v1.GroupService.SendMessage is not implemented"))
}

func (UnimplementedGroupServiceHandler) ListMessages(context.Context, *connect.Request[api.ListMessagesRequest]) (*connect.Response[api.ListMessagesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bubbl.v1.GroupService.ListMessages is not implemented"))
}
