package generator_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/empathia-lab/therabot/pkg/service/generator"
)

type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"hello there"}}, nil
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func TestComplete_Success(t *testing.T) {
	svc, err := generator.New(&mockLLMClient{})
	gt.NoError(t, err).Required()

	completion, err := svc.Complete(context.Background(), "be kind", "say hello")
	gt.NoError(t, err).Required()
	gt.B(t, completion.Blocked).False()
	gt.V(t, completion.Text).Equal("hello there")
}

func TestComplete_SafetyBlock(t *testing.T) {
	svc, err := generator.New(&mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return nil, goerr.New("response blocked by safety filter: SAFETY")
				},
			}, nil
		},
	})
	gt.NoError(t, err).Required()

	completion, err := svc.Complete(context.Background(), "sys", "user")
	gt.NoError(t, err).Required()
	gt.B(t, completion.Blocked).True()
	gt.S(t, completion.BlockReason).NotEqual("")
	gt.V(t, completion.Text).Equal("")
}

func TestComplete_TransportError(t *testing.T) {
	svc, err := generator.New(&mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return nil, goerr.New("connection reset by peer")
				},
			}, nil
		},
	})
	gt.NoError(t, err).Required()

	_, err = svc.Complete(context.Background(), "sys", "user")
	gt.Error(t, err)
}

func TestComplete_EmptyResponseIsNotBlocked(t *testing.T) {
	svc, err := generator.New(&mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{}, nil
				},
			}, nil
		},
	})
	gt.NoError(t, err).Required()

	completion, err := svc.Complete(context.Background(), "sys", "user")
	gt.NoError(t, err).Required()
	gt.B(t, completion.Blocked).False()
	gt.V(t, completion.Text).Equal("")
}

func TestNew_RequiresClient(t *testing.T) {
	_, err := generator.New(nil)
	gt.Error(t, err)
}
