package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/senyabanana/procurement-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVendorService(t *testing.T) {
	s := NewVendorService(newMemVendorRepo())
	ctx := context.Background()

	acme, err := s.CreateVendor(ctx, models.VendorRequest{Name: " Acme ", Email: "acme@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", acme.Name)

	globex, err := s.CreateVendor(ctx, models.VendorRequest{Name: "Globex", Email: "globex@example.com"})
	require.NoError(t, err)

	var errResp *models.ErrorResponse

	_, err = s.CreateVendor(ctx, models.VendorRequest{Name: "Acme 2", Email: "acme@example.com"})
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusConflict, errResp.StatusCode)

	_, err = s.CreateVendor(ctx, models.VendorRequest{Name: "No email"})
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusBadRequest, errResp.StatusCode)

	_, err = s.CreateVendor(ctx, models.VendorRequest{Name: "Bad", Email: "not-an-email"})
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusBadRequest, errResp.StatusCode)

	_, err = s.UpdateVendor(ctx, globex.ID, models.VendorRequest{Name: "Globex", Email: "acme@example.com"})
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusConflict, errResp.StatusCode)

	updated, err := s.UpdateVendor(ctx, globex.ID, models.VendorRequest{Name: "Globex Corp", Email: "sales@globex.example"})
	require.NoError(t, err)
	assert.Equal(t, "Globex Corp", updated.Name)

	vendors, err := s.ListVendors(ctx)
	require.NoError(t, err)
	assert.Len(t, vendors, 2)

	require.NoError(t, s.DeleteVendor(ctx, acme.ID))
	_, err = s.GetVendor(ctx, acme.ID)
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusNotFound, errResp.StatusCode)
}
