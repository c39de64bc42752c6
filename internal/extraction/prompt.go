package extraction

// lineItemPrompt is the shared prompt used by all LLM providers for extracting invoice line items
const lineItemPrompt = `You are analyzing an invoice document. Carefully read all text in the image and extract every line item, along with the invoice-level information repeated on each line:

1. **Vendor**: The business name issuing the invoice, usually in the header or logo area.

2. **Invoice Number**: The invoice or reference number, often labeled "Invoice #", "Invoice No.", or "Reference".

3. **Invoice Date**: The date of the invoice. Convert it to ISO 8601 format (YYYY-MM-DD). Common source formats: MM/DD/YYYY, DD/MM/YYYY, or written dates.

4. **Line Items**: Every individual row in the itemized section of the invoice. For each row extract:
   - description: the item or service description
   - quantity: the number of units (a number, default 1 if not shown)
   - unit_price: the price per unit (a number)
   - total: the line total (a number)

Return ONLY a valid JSON array in this exact format:
[
  {
    "vendor": "Vendor Name",
    "invoice_number": "INV-0001",
    "invoice_date": "YYYY-MM-DD",
    "description": "Item description",
    "quantity": 1,
    "unit_price": 0.00,
    "total": 0.00
  }
]

Important:
- Repeat the vendor, invoice_number, and invoice_date fields on every element
- The invoice_date must be in YYYY-MM-DD format
- quantity, unit_price, and total must be numbers (not strings)
- Keep the line items in the order they appear on the invoice
- If the invoice has no itemized rows, return an empty array: []
- Do not include any text before or after the JSON
- Do not use markdown code blocks`
