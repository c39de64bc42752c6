package invoice

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltKeyStore", func() {
	var (
		tmpDir string
		dbPath string
		store  *BoltKeyStore
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		store, err = NewBoltKeyStore(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if store != nil {
			store.Close()
		}
	})

	Describe("LoadKey", func() {
		When("no key has been saved", func() {
			It("should return an empty string without an error", func() {
				key, err := store.LoadKey()
				Expect(err).NotTo(HaveOccurred())
				Expect(key).To(BeEmpty())
			})
		})

		When("a key has been saved", func() {
			BeforeEach(func() {
				Expect(store.SaveKey("test-key")).To(Succeed())
			})

			It("should return the saved key", func() {
				key, err := store.LoadKey()
				Expect(err).NotTo(HaveOccurred())
				Expect(key).To(Equal("test-key"))
			})
		})
	})

	Describe("SaveKey", func() {
		It("should overwrite the single slot on repeated saves", func() {
			Expect(store.SaveKey("first-key")).To(Succeed())
			Expect(store.SaveKey("second-key")).To(Succeed())

			key, err := store.LoadKey()
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("second-key"))
		})

		It("should persist across a close and reopen", func() {
			Expect(store.SaveKey("durable-key")).To(Succeed())
			Expect(store.Close()).To(Succeed())

			reopened, err := NewBoltKeyStore(dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer reopened.Close()

			key, err := reopened.LoadKey()
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("durable-key"))

			store = nil // already closed
		})
	})
})
