package mocks

import (
	"context"

	"pixgate/pkg/pix"

	"github.com/stretchr/testify/mock"
)

type Provider struct {
	mock.Mock
}

func (m *Provider) CreateCharge(ctx context.Context, creds pix.Credentials, req pix.ChargeRequest) (*pix.Charge, error) {
	args := m.Called(ctx, creds, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pix.Charge), args.Error(1)
}

func (m *Provider) GetStatus(ctx context.Context, creds pix.Credentials, externalID string) (*pix.StatusResult, error) {
	args := m.Called(ctx, creds, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pix.StatusResult), args.Error(1)
}
