package invoice

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"invoice-extractor/internal/extraction"
)

var _ = Describe("BuildWorkbook", func() {
	var (
		records []extraction.LineItem
		data    []byte
		err     error
	)

	JustBeforeEach(func() {
		data, err = BuildWorkbook(records)
	})

	readRows := func() [][]string {
		f, openErr := excelize.OpenReader(bytes.NewReader(data))
		Expect(openErr).NotTo(HaveOccurred())
		defer f.Close()
		rows, rowsErr := f.GetRows(exportSheet)
		Expect(rowsErr).NotTo(HaveOccurred())
		return rows
	}

	When("exporting records", func() {
		BeforeEach(func() {
			records = []extraction.LineItem{
				{Vendor: "Acme Corp", InvoiceNumber: "INV-1001", InvoiceDate: "2024-01-15", Description: "Widget", Quantity: 2, UnitPrice: 10.5, Total: 21},
				{Vendor: "Acme Corp", InvoiceNumber: "INV-1001", InvoiceDate: "2024-01-15", Description: "Gadget", Quantity: 1, UnitPrice: 99.99, Total: 99.99},
			}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should write one header row plus one row per record", func() {
			Expect(readRows()).To(HaveLen(3))
		})

		It("should preserve the field order in the header", func() {
			rows := readRows()
			Expect(rows[0]).To(Equal([]string{
				"Vendor", "Invoice Number", "Invoice Date", "Description", "Quantity", "Unit Price", "Total",
			}))
		})

		It("should preserve the record order and values", func() {
			rows := readRows()
			Expect(rows[1]).To(Equal([]string{
				"Acme Corp", "INV-1001", "2024-01-15", "Widget", "2", "10.5", "21",
			}))
			Expect(rows[2][3]).To(Equal("Gadget"))
		})

		It("should reflect edited values, not original ones", func() {
			records[1].Total = 123.45
			edited, buildErr := BuildWorkbook(records)
			Expect(buildErr).NotTo(HaveOccurred())

			f, openErr := excelize.OpenReader(bytes.NewReader(edited))
			Expect(openErr).NotTo(HaveOccurred())
			defer f.Close()
			rows, rowsErr := f.GetRows(exportSheet)
			Expect(rowsErr).NotTo(HaveOccurred())
			Expect(rows[2][6]).To(Equal("123.45"))
		})
	})

	When("exporting an empty record set", func() {
		BeforeEach(func() {
			records = nil
		})

		It("should produce a valid workbook with headers only", func() {
			Expect(err).NotTo(HaveOccurred())
			rows := readRows()
			Expect(rows).To(HaveLen(1))
			Expect(rows[0][0]).To(Equal("Vendor"))
		})
	})
})

var _ = Describe("ExportFilename", func() {
	It("follows the fixed naming convention", func() {
		now := time.Date(2024, 3, 20, 14, 30, 5, 0, time.UTC)
		Expect(ExportFilename(now)).To(Equal("invoice-items-20240320-143005.xlsx"))
	})
})
