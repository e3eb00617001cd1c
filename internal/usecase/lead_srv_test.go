package usecase

import (
	"context"
	"testing"

	"travel-booking/internal/data/repository"
	"travel-booking/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLeadFixture(t *testing.T) (*fakeLeadRepo, LeadService) {
	t.Helper()

	leads := &fakeLeadRepo{}
	repo := &repository.Repository{Lead: leads}
	service := NewLeadService(repo, zap.NewNop())
	return leads, service
}

func validLeadRequest() *request.CreateLeadRequest {
	return &request.CreateLeadRequest{
		FullName:    "Jane Doe",
		Email:       "jane@example.com",
		PhoneNumber: "+44 7700 900123",
		ProductLine: "umrah",
		Message:     "Interested in the December package",
	}
}

func TestCreateLead(t *testing.T) {
	leads, service := newLeadFixture(t)

	resp, err := service.CreateLead(context.Background(), validLeadRequest())

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", resp.FullName)
	assert.Equal(t, "+447700900123", resp.PhoneNumber)
	assert.Equal(t, "umrah", resp.ProductLine)
	assert.Equal(t, "Interested in the December package", resp.Message)

	require.Len(t, leads.leads, 1)
	assert.Equal(t, "+447700900123", leads.leads[0].PhoneNumber)
}

func TestCreateLead_ValidationFailure(t *testing.T) {
	leads, service := newLeadFixture(t)

	req := validLeadRequest()
	req.ProductLine = "cruise"

	_, err := service.CreateLead(context.Background(), req)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Empty(t, leads.leads)
}

func TestCreateLead_InvalidPhone(t *testing.T) {
	leads, service := newLeadFixture(t)

	req := validLeadRequest()
	req.PhoneNumber = "call me maybe"

	_, err := service.CreateLead(context.Background(), req)

	require.Error(t, err)
	assert.Empty(t, leads.leads)
}

func TestGetLeads(t *testing.T) {
	leads, service := newLeadFixture(t)

	for i := 0; i < 3; i++ {
		_, err := service.CreateLead(context.Background(), validLeadRequest())
		require.NoError(t, err)
	}
	require.Len(t, leads.leads, 3)

	resp, err := service.GetLeads(context.Background(), &request.PaginatedRequest{Page: 1, PerPage: 2})

	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
}
