package auditlogs

const (
	ActionInvoiceCreated  = "invoice.created"
	ActionInvoiceUpdated  = "invoice.updated"
	ActionPaymentRecorded = "payment.recorded"
	ActionContractSigned  = "contract.signed"
	ActionVendorCreated   = "vendor.created"
	ActionJobCreated      = "job.created"
)
