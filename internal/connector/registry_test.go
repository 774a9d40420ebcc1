package connector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type nopConnector struct{}

func (nopConnector) FetchPeriodInvoices(ctx context.Context, start, end time.Time) ([]Invoice, error) {
	return nil, nil
}

func (nopConnector) FetchPeriodPayments(ctx context.Context, start, end time.Time) ([]Payment, error) {
	return nil, nil
}

func (nopConnector) FetchOpenInvoices(ctx context.Context) ([]OpenInvoice, error) {
	return nil, nil
}

func (nopConnector) CheckCredentials(ctx context.Context) bool { return true }

func TestRegistryResolvesRegisteredSystem(t *testing.T) {
	registry := NewRegistry()
	registry.Register("moneybird", func(credentials map[string]string) (Connector, error) {
		require.Equal(t, "123", credentials["admin_id"])
		return nopConnector{}, nil
	})

	conn, err := registry.For("moneybird", map[string]string{"admin_id": "123"})

	require.NoError(t, err)
	require.NotNil(t, conn)
}

func TestRegistryUnknownSystem(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.For("exactonline", nil)

	require.ErrorIs(t, err, ErrConnectorUnavailable)
	require.Contains(t, err.Error(), "exactonline")
}

func TestRegistryFactoryFailure(t *testing.T) {
	registry := NewRegistry()
	registry.Register("moneybird", func(credentials map[string]string) (Connector, error) {
		return nil, errors.New("incomplete credentials")
	})

	_, err := registry.For("moneybird", nil)

	require.ErrorIs(t, err, ErrConnectorUnavailable)
	require.Contains(t, err.Error(), "incomplete credentials")
}

func TestRegistrySystemsSorted(t *testing.T) {
	registry := NewRegistry()
	factory := func(credentials map[string]string) (Connector, error) { return nopConnector{}, nil }
	registry.Register("moneybird", factory)
	registry.Register("exactonline", factory)

	require.Equal(t, []string{"exactonline", "moneybird"}, registry.Systems())
}

func TestRemoteFetchErrorUnwraps(t *testing.T) {
	cause := errors.New("status 502")
	err := &RemoteFetchError{Endpoint: "sales_invoices", Err: cause}

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "sales_invoices")
}
