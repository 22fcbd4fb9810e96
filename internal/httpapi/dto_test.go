package httpapi

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

var _ = Describe("validRole", func() {
	It("accepts every role the domain defines", func() {
		for role := range domain.ValidRoles {
			got, ok := validRole(string(role))
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(role))
		}
	})

	It("rejects an unknown role string", func() {
		_, ok := validRole("superadmin")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("request DTO validation", func() {
	It("rejects a registerRequest missing required fields", func() {
		err := validate().Struct(registerRequest{})
		Expect(err).To(HaveOccurred())
	})

	It("accepts a well-formed registerRequest", func() {
		err := validate().Struct(registerRequest{Username: "yasemin", Email: "y@example.com", Password: "s3cretpw"})
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects a submitRequest with an empty penman body", func() {
		err := validate().Struct(submitRequest{})
		Expect(err).To(HaveOccurred())
	})

	It("accepts a well-formed exportJobCreateRequest", func() {
		err := validate().Struct(exportJobCreateRequest{Level: "sentence", Format: "json", PIIStrategy: "none"})
		Expect(err).NotTo(HaveOccurred())
	})
})
