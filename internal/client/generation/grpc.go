package generation

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
	"github.com/dmitrijs2005/smartvoyage/internal/common"
	"github.com/dmitrijs2005/smartvoyage/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const serviceName = "voyage.generation.v1.Generation"

const (
	MethodGenerateItinerary = "/" + serviceName + "/GenerateItinerary"
	MethodFindSurprise      = "/" + serviceName + "/FindSurprise"
	MethodPackingChecklist  = "/" + serviceName + "/PackingChecklist"
	MethodChat              = "/" + serviceName + "/Chat"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	token       TokenSource
	log         logging.Logger
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if c.token != nil {
		tok, err := c.token(ctx)
		if err != nil {
			return err
		}
		if tok != "" {
			ctx = withAccessToken(ctx, tok)
		}
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily; extra dial options are appended after the
// defaults (plaintext transport, JSON codec, token interceptor).
func NewGRPCClient(endpointURL string, token TokenSource, log logging.Logger, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{
		endpointURL: endpointURL,
		token:       token,
		log:         log.With("module", "generation", "transport", "grpc"),
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(jsonCodec{})),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) call(ctx context.Context, method string, req any) (*envelope, error) {
	var resp envelope
	if err := c.conn.Invoke(ctx, method, req, &resp); err != nil {
		c.log.Warn(ctx, "rpc failed", "method", method, "error", err)
		return nil, c.mapError(err)
	}
	return &resp, nil
}

func (c *GRPCClient) GenerateItinerary(ctx context.Context, form models.JourneyForm) (string, error) {
	resp, err := c.call(ctx, MethodGenerateItinerary, &form)
	if err != nil {
		return "", err
	}
	return nonEmpty(resp.Itinerary)
}

func (c *GRPCClient) FindSurprise(ctx context.Context, form models.JourneyForm) (string, error) {
	resp, err := c.call(ctx, MethodFindSurprise, &form)
	if err != nil {
		return "", err
	}
	return nonEmpty(resp.Recommendations)
}

func (c *GRPCClient) PackingChecklist(ctx context.Context, req models.ChecklistRequest) (*models.LuggageChecklist, error) {
	resp, err := c.call(ctx, MethodPackingChecklist, &req)
	if err != nil {
		return nil, err
	}
	if resp.LuggageChecklist.Empty() {
		return nil, ErrEmptyResponse
	}
	return resp.LuggageChecklist, nil
}

func (c *GRPCClient) Chat(ctx context.Context, message string) (string, error) {
	resp, err := c.call(ctx, MethodChat, &chatRequest{Message: message})
	if err != nil {
		return "", err
	}
	return nonEmpty(resp.Reply)
}

func (c *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
