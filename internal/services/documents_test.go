package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
)

func TestDocumentService_VerifyFlow(t *testing.T) {
	f := newFixture(t)
	svc := NewDocumentService(f.store, f.notifier)
	carrier := f.user(t, "carrier", models.RoleCarrier)
	admin := f.user(t, "admin", models.RoleAdmin)

	_, err := svc.Create(f.ctx, carrier, DocumentInput{Type: "passport", URL: "https://files/x.pdf"})
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)

	license, err := svc.Create(f.ctx, carrier, DocumentInput{Type: models.DocLicense, URL: "https://files/license.pdf"})
	require.NoError(t, err)
	assert.Equal(t, models.DocPending, license.Status)
	cnic, err := svc.Create(f.ctx, carrier, DocumentInput{Type: models.DocCNIC, URL: "https://files/cnic.jpg"})
	require.NoError(t, err)

	pending, err := svc.ListByStatus(f.ctx, "")
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	got, err := svc.Verify(f.ctx, admin, license.ID, models.DocVerified, "")
	require.NoError(t, err)
	assert.Equal(t, models.DocVerified, got.Status)
	assert.Equal(t, admin.ID, got.VerifiedBy)
	assert.NotNil(t, got.VerifiedAt)

	_, err = svc.Verify(f.ctx, admin, license.ID, models.DocRejected, "")
	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)

	_, err = svc.Verify(f.ctx, admin, cnic.ID, models.DocRejected, "image is blurry")
	require.NoError(t, err)

	mine, err := svc.ListMine(f.ctx, carrier)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	f.notifier.Wait()
	assert.Len(t, f.hook.byType(models.NotifyDocumentVerified), 1)
	rejected := f.hook.byType(models.NotifyDocumentRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, "image is blurry", rejected[0].Body)
	assert.Equal(t, "cnic", rejected[0].Data["documentType"])
}

func TestDocumentService_AttachToForeignVehicle(t *testing.T) {
	f := newFixture(t)
	svc := NewDocumentService(f.store, f.notifier)
	owner := f.user(t, "owner", models.RoleCarrier)
	other := f.user(t, "other", models.RoleCarrier)

	v := &models.Vehicle{OwnerID: owner.ID, VehicleType: models.VehicleMazda}
	require.NoError(t, f.store.CreateVehicle(f.ctx, v))

	_, err := svc.Create(f.ctx, other, DocumentInput{Type: models.DocRegistration, VehicleID: v.ID})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
