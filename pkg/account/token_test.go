package account_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/amr-platform/annotation-core/pkg/account"
	"github.com/amr-platform/annotation-core/pkg/domain"
)

var _ = Describe("HMACTokenizer", func() {
	var (
		tokenizer *account.HMACTokenizer
		user      *domain.User
	)

	BeforeEach(func() {
		tokenizer = account.NewHMACTokenizer("top-secret", time.Hour)
		user = &domain.User{ID: 42, Role: domain.RoleAnnotator}
	})

	It("round-trips claims through Issue/Verify", func() {
		token, err := tokenizer.Issue(user)
		Expect(err).NotTo(HaveOccurred())

		claims, err := tokenizer.Verify(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.UserID).To(Equal(int64(42)))
		Expect(claims.Role).To(Equal(domain.RoleAnnotator))
	})

	It("rejects a token signed with a different secret", func() {
		token, err := tokenizer.Issue(user)
		Expect(err).NotTo(HaveOccurred())

		other := account.NewHMACTokenizer("a-different-secret", time.Hour)
		_, err = other.Verify(token)
		Expect(err).To(MatchError(domain.ErrAuthInvalid))
	})

	It("rejects a malformed token", func() {
		_, err := tokenizer.Verify("not-a-real-token")
		Expect(err).To(MatchError(domain.ErrAuthInvalid))
	})

	It("rejects an expired token", func() {
		expired := account.NewHMACTokenizer("top-secret", -time.Minute)
		token, err := expired.Issue(user)
		Expect(err).NotTo(HaveOccurred())

		_, err = tokenizer.Verify(token)
		Expect(err).To(MatchError(domain.ErrAuthInvalid))
	})
})
