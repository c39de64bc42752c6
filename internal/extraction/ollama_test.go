package extraction

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Ollama", func() {
	var (
		server  *ghttp.Server
		ollama  *Ollama
		pngData []byte
	)

	// Declared as image/png so prepareImageData passes the bytes through
	// without decoding them.
	BeforeEach(func() {
		pngData = []byte("\x89PNG\r\n\x1a\nfake png payload")

		server = ghttp.NewServer()
		var err error
		ollama, err = NewOllama(server.URL(), "llava")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("NewOllama", func() {
		It("should default the base URL when empty", func() {
			o, err := NewOllama("", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(o.baseURL).To(Equal("http://localhost:11434"))
			Expect(o.model).To(Equal("llava"))
		})
	})

	Describe("ExtractLineItems", func() {
		When("the server returns a valid line item array", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest("POST", "/api/chat"),
					ghttp.VerifyContentType("application/json"),
					ghttp.RespondWith(http.StatusOK, `{
						"message": {
							"role": "assistant",
							"content": "[{\"vendor\": \"Acme Corp\", \"invoice_number\": \"INV-7\", \"invoice_date\": \"2024-02-01\", \"description\": \"Widget\", \"quantity\": 2, \"unit_price\": 4.5, \"total\": 9}]"
						},
						"done": true
					}`),
				))
			})

			It("should return the parsed line items", func() {
				items, err := ollama.ExtractLineItems(pngData, "image/png")
				Expect(err).NotTo(HaveOccurred())
				Expect(items).To(HaveLen(1))
				Expect(items[0].Vendor).To(Equal("Acme Corp"))
				Expect(items[0].Total).To(Equal(9.0))
			})
		})

		When("the server returns an error status", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest("POST", "/api/chat"),
					ghttp.RespondWith(http.StatusInternalServerError, "model not loaded"),
				))
			})

			It("should return an error with the status and body", func() {
				_, err := ollama.ExtractLineItems(pngData, "image/png")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("status 500"))
				Expect(err.Error()).To(ContainSubstring("model not loaded"))
			})
		})

		When("the server returns prose without an array", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest("POST", "/api/chat"),
					ghttp.RespondWith(http.StatusOK, `{
						"message": {"role": "assistant", "content": "I cannot read this image."},
						"done": true
					}`),
				))
			})

			It("should return a parse error", func() {
				_, err := ollama.ExtractLineItems(pngData, "image/png")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("parsing line items"))
			})
		})
	})
})
