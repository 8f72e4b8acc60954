package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/repository"
	"github.com/Pratik980/GharNirman-sub000/internal/domainerrors"
)

func TestRegisterContractor(t *testing.T) {
	ctx := context.Background()

	t.Run("starts pending with pending documents", func(t *testing.T) {
		env := newTestEnv(t)
		c := env.registerContractor(t, "ram")
		assert.Equal(t, entity.VerificationPending, c.Status)
		assert.False(t, c.Verified())
	})

	t.Run("missing required document", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.verify.RegisterContractor(ctx, RegisterContractorInput{
			FullName: "ram",
			Email:    "ram@example.com",
			Documents: []entity.Document{
				{Type: entity.DocLicenseFile},
			},
		})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	})

	t.Run("unknown document type", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.verify.RegisterContractor(ctx, RegisterContractorInput{
			FullName: "ram",
			Email:    "ram@example.com",
			Documents: []entity.Document{
				{Type: "taxReturn"},
			},
		})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	})
}

func TestVerifyDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("crossing into verified notifies the contractor", func(t *testing.T) {
		env := newTestEnv(t)
		c := env.registerContractor(t, "ram")
		env.verifyContractor(t, c.ID)

		rec := entity.Recipient{ID: c.ID, Role: entity.RoleContractor}
		var sawVerified bool
		for _, n := range env.backlog(t, rec) {
			if n.Type == entity.NotifContractorVerified {
				sawVerified = true
			}
		}
		assert.True(t, sawVerified)

		got, err := env.verify.GetContractor(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, got.Verified())
	})

	t.Run("first document alone does not notify", func(t *testing.T) {
		env := newTestEnv(t)
		c := env.registerContractor(t, "ram")

		_, err := env.verify.VerifyDocument(ctx, c.ID, repository.SetDocumentInput{
			Type:       entity.DocLicenseFile,
			Expected:   entity.VerificationPending,
			Next:       entity.VerificationVerified,
			VerifiedBy: "admin-1",
		})
		require.NoError(t, err)

		rec := entity.Recipient{ID: c.ID, Role: entity.RoleContractor}
		for _, n := range env.backlog(t, rec) {
			assert.NotEqual(t, entity.NotifContractorVerified, n.Type)
		}
	})

	t.Run("required rejection notifies with reason", func(t *testing.T) {
		env := newTestEnv(t)
		c := env.registerContractor(t, "ram")

		upd, err := env.verify.VerifyDocument(ctx, c.ID, repository.SetDocumentInput{
			Type:            entity.DocLicenseFile,
			Expected:        entity.VerificationPending,
			Next:            entity.VerificationRejected,
			VerifiedBy:      "admin-1",
			RejectionReason: "blurry scan",
		})
		require.NoError(t, err)
		assert.Equal(t, entity.VerificationRejected, upd.AggregateAfter)

		rec := entity.Recipient{ID: c.ID, Role: entity.RoleContractor}
		ns := env.backlog(t, rec)
		require.NotEmpty(t, ns)
		assert.Equal(t, entity.NotifContractorRejected, ns[0].Type)
		assert.Contains(t, ns[0].Message, "blurry scan")
	})

	t.Run("resubmission re-enters the admin queue", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.PutUser(entity.User{ID: "adm1", Role: entity.RoleAdmin})
		c := env.registerContractor(t, "ram")

		_, err := env.verify.VerifyDocument(ctx, c.ID, repository.SetDocumentInput{
			Type:            entity.DocLicenseFile,
			Expected:        entity.VerificationPending,
			Next:            entity.VerificationRejected,
			RejectionReason: "expired",
		})
		require.NoError(t, err)

		_, err = env.verify.VerifyDocument(ctx, c.ID, repository.SetDocumentInput{
			Type:     entity.DocLicenseFile,
			Expected: entity.VerificationRejected,
			Next:     entity.VerificationPending,
		})
		require.NoError(t, err)

		adminRec := entity.Recipient{ID: "adm1", Role: entity.RoleAdmin}
		var submissions, resubmissions int
		for _, n := range env.backlog(t, adminRec) {
			if n.Type == entity.NotifDocumentSubmitted {
				submissions++
				if strings.Contains(n.Message, "resubmitted") {
					resubmissions++
				}
			}
		}
		// Registration, the rejection settle, and the resubmission.
		assert.Equal(t, 3, submissions)
		assert.Equal(t, 1, resubmissions)
	})

	t.Run("every settle reaches the admins", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.PutUser(entity.User{ID: "adm1", Role: entity.RoleAdmin})
		c := env.registerContractor(t, "ram")

		_, err := env.verify.VerifyDocument(ctx, c.ID, repository.SetDocumentInput{
			Type:       entity.DocLicenseFile,
			Expected:   entity.VerificationPending,
			Next:       entity.VerificationVerified,
			VerifiedBy: "adm1",
		})
		require.NoError(t, err)

		adminRec := entity.Recipient{ID: "adm1", Role: entity.RoleAdmin}
		ns := env.backlog(t, adminRec)
		// Registration row plus the verify settle.
		require.Len(t, ns, 2)
		assert.Equal(t, entity.NotifDocumentSubmitted, ns[0].Type)
		assert.Contains(t, ns[0].Message, string(entity.DocLicenseFile))
		assert.True(t, env.transport.destinations()["admins"])
	})

	t.Run("unknown status", func(t *testing.T) {
		env := newTestEnv(t)
		c := env.registerContractor(t, "ram")
		_, err := env.verify.VerifyDocument(ctx, c.ID, repository.SetDocumentInput{
			Type:     entity.DocLicenseFile,
			Expected: entity.VerificationPending,
			Next:     "approved",
		})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	})
}
