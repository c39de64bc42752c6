package invoice

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Credentials", func() {
	var (
		extractor   *mockExtractor
		keyStore    *mockKeyStore
		factory     *mockFactory
		credentials *Credentials
	)

	BeforeEach(func() {
		extractor = newMockExtractor()
		keyStore = &mockKeyStore{}
		factory = &mockFactory{extractor: extractor}
		credentials = NewCredentials(keyStore, factory.build)
	})

	Describe("LoadPersisted", func() {
		When("a valid key is persisted", func() {
			BeforeEach(func() {
				keyStore.key = "persisted-key"
			})

			It("activates an extractor through the normal validation path", func() {
				activated, err := credentials.LoadPersisted()
				Expect(err).NotTo(HaveOccurred())
				Expect(activated).To(BeTrue())
				Expect(factory.keys).To(Equal([]string{"persisted-key"}))
				Expect(credentials.Configured()).To(BeTrue())
			})
		})

		When("no key is persisted", func() {
			It("activates nothing and returns no error", func() {
				activated, err := credentials.LoadPersisted()
				Expect(err).NotTo(HaveOccurred())
				Expect(activated).To(BeFalse())
				Expect(credentials.Configured()).To(BeFalse())
			})
		})

		When("the persisted key is rejected", func() {
			BeforeEach(func() {
				keyStore.key = "stale-key"
				factory.err = errors.New("api key not valid")
			})

			It("returns the error and leaves the credential unconfigured", func() {
				activated, err := credentials.LoadPersisted()
				Expect(err).To(HaveOccurred())
				Expect(activated).To(BeFalse())
				Expect(credentials.Configured()).To(BeFalse())
			})
		})

		When("the store cannot be read", func() {
			BeforeEach(func() {
				keyStore.loadErr = errors.New("db corrupt")
			})

			It("returns the error", func() {
				_, err := credentials.LoadPersisted()
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Set", func() {
		It("closes the previous extractor when replaced", func() {
			first := newMockExtractor()
			credentials.Adopt(first)

			Expect(credentials.Set("new-key")).To(Succeed())
			Expect(first.closed).To(BeTrue())
		})
	})

	Describe("Active", func() {
		It("returns ErrNoCredential before any key is set", func() {
			_, err := credentials.Active()
			Expect(err).To(MatchError(ErrNoCredential))
		})

		It("returns the extractor after a successful Set", func() {
			Expect(credentials.Set("valid-key")).To(Succeed())
			active, err := credentials.Active()
			Expect(err).NotTo(HaveOccurred())
			Expect(active).To(BeIdenticalTo(extractor))
		})
	})
})
