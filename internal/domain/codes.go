package domain

// ErrorCode is a stable, named error code that may cross the API boundary.
// Raw upstream error bodies never do.
type ErrorCode string

const (
	CodeSchemaInvalid    ErrorCode = "SCHEMA_INVALID"
	CodeProductNotFound  ErrorCode = "PRODUCT_NOT_FOUND"
	CodeVariantNotFound  ErrorCode = "VARIANT_NOT_FOUND"
	CodeOutOfStock       ErrorCode = "OUT_OF_STOCK"
	CodeInvalidQuantity  ErrorCode = "INVALID_QUANTITY"
	CodePrintfulAPIError ErrorCode = "PRINTFUL_API_ERROR"
	CodeSignatureInvalid ErrorCode = "SIGNATURE_INVALID"
	CodeSignatureMissing ErrorCode = "SIGNATURE_MISSING"
	CodeOrderSubmission  ErrorCode = "ORDER_SUBMISSION_ERROR"
)
