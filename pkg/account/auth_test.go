package account_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-logr/logr"

	"github.com/amr-platform/annotation-core/pkg/account"
	"github.com/amr-platform/annotation-core/pkg/domain"
)

var _ = Describe("AuthService", func() {
	var (
		users   *fakeUsers
		issuer  *fakeIssuer
		svc     *account.AuthService
		ctx     context.Context
	)

	BeforeEach(func() {
		users = newFakeUsers()
		issuer = &fakeIssuer{}
		svc = account.NewAuthService(&fakeTxRunner{}, users, issuer, logr.Discard())
		ctx = context.Background()
	})

	Describe("Register", func() {
		It("creates a pending, active user with a hashed credential", func() {
			user, err := svc.Register(ctx, account.RegisterRequest{
				Username: "ayse", Email: "ayse@example.com", Password: "s3cret!",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal(domain.RolePending))
			Expect(user.Active).To(BeTrue())
			Expect(user.HashedCredential).NotTo(Equal("s3cret!"))
		})

		It("returns conflict on a duplicate username", func() {
			_, err := svc.Register(ctx, account.RegisterRequest{Username: "ayse", Email: "a@x.com", Password: "p"})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Register(ctx, account.RegisterRequest{Username: "ayse", Email: "b@x.com", Password: "p"})
			Expect(err).To(MatchError(domain.ErrConflict))
		})
	})

	Describe("Authenticate", func() {
		BeforeEach(func() {
			_, err := svc.Register(ctx, account.RegisterRequest{
				Username: "mehmet", Email: "m@x.com", Password: "correct-horse",
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("issues a token on a correct password", func() {
			result, err := svc.Authenticate(ctx, "mehmet", "correct-horse")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Token).NotTo(BeEmpty())
			Expect(issuer.issued.Username).To(Equal("mehmet"))
		})

		It("rejects a wrong password", func() {
			_, err := svc.Authenticate(ctx, "mehmet", "wrong")
			Expect(err).To(MatchError(domain.ErrAuthInvalid))
		})

		It("rejects an unknown username", func() {
			_, err := svc.Authenticate(ctx, "nobody", "whatever")
			Expect(err).To(MatchError(domain.ErrAuthInvalid))
		})

		It("rejects a deactivated user", func() {
			u, err := users.GetByUsername(ctx, nil, "mehmet")
			Expect(err).NotTo(HaveOccurred())
			Expect(users.UpdateRoleActive(ctx, nil, u.ID, domain.RoleAnnotator, false)).To(Succeed())

			_, err = svc.Authenticate(ctx, "mehmet", "correct-horse")
			Expect(err).To(MatchError(domain.ErrAuthInvalid))
		})
	})

	Describe("UpdateUserRole", func() {
		It("promotes a pending user to annotator", func() {
			created, err := svc.Register(ctx, account.RegisterRequest{Username: "can", Email: "c@x.com", Password: "p"})
			Expect(err).NotTo(HaveOccurred())

			updated, err := svc.UpdateUserRole(ctx, created.ID, domain.RoleAnnotator, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Role).To(Equal(domain.RoleAnnotator))
			Expect(updated.Active).To(BeTrue())
		})

		It("returns not found for an unknown user", func() {
			_, err := svc.UpdateUserRole(ctx, 999, domain.RoleAnnotator, true)
			Expect(err).To(MatchError(domain.ErrNotFound))
		})
	})
})
