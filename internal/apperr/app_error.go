package apperr

import (
	"errors"
	"fmt"
	"strings"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/tuanvumaihuynh/graphql-crm/pkg/validator"
	"github.com/tuanvumaihuynh/graphql-crm/pkg/zerror"
)

const (
	ValidationErrorCode = "VALIDATION_FAILED"

	EmailExistsCode      = "EMAIL_EXISTS"
	InvalidPhoneCode     = "INVALID_PHONE"
	BulkCreateFailedCode = "BULK_CREATE_FAILED"

	PriceNotPositiveCode = "PRICE_NOT_POSITIVE"
	PriceOutOfRangeCode  = "PRICE_OUT_OF_RANGE"
	PriceBelowMinCode    = "PRICE_BELOW_MINIMUM"
	StockNegativeCode    = "STOCK_NEGATIVE"
	ProductNotFoundCode  = "PRODUCT_NOT_FOUND"

	EmptyOrderCode          = "EMPTY_ORDER"
	CustomerNotFoundCode    = "CUSTOMER_NOT_FOUND"
	InvalidProductIDsCode   = "INVALID_PRODUCT_IDS"
	OrderNotFoundCode       = "ORDER_NOT_FOUND"
	InvalidGlobalIDCode     = "INVALID_GLOBAL_ID"
	InvalidCursorCode       = "INVALID_CURSOR"
	InvalidOrderByCode      = "INVALID_ORDER_BY"
	InvalidFilterCode       = "INVALID_FILTER"
	InvalidPaginationCode   = "INVALID_PAGINATION"
	InternalServerErrorCode = "INTERNAL_SERVER_ERROR"

	MutationRequiresPostCode = "MUTATION_REQUIRES_POST"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	ErrEmailExists      = zerror.NewConflict(EmailExistsCode, "Email already exists.")
	ErrInvalidPhone     = zerror.NewValidationFailed(InvalidPhoneCode, "Invalid phone format.")
	ErrBulkCreateFailed = zerror.NewUnprocessableEntity(BulkCreateFailedCode, "All records failed to be created.")

	ErrPriceNotPositive  = zerror.NewValidationFailed(PriceNotPositiveCode, "Price must be positive.")
	ErrPriceOutOfRange   = zerror.NewValidationFailed(PriceOutOfRangeCode, "Price must be less than 100000000.")
	ErrPriceBelowMinimum = zerror.NewValidationFailed(PriceBelowMinCode, "Price must be at least 0.01.")
	ErrStockNegative     = zerror.NewValidationFailed(StockNegativeCode, "Stock cannot be negative.")
	ErrProductNotFound   = zerror.NewNotFound(ProductNotFoundCode, "Product does not exist.")

	ErrEmptyOrder        = zerror.NewValidationFailed(EmptyOrderCode, "An order must contain at least one product.")
	ErrCustomerNotFound  = zerror.NewNotFound(CustomerNotFoundCode, "Customer does not exist.")
	ErrInvalidProductIDs = zerror.NewNotFound(InvalidProductIDsCode, "One or more product IDs are invalid.")
	ErrOrderNotFound     = zerror.NewNotFound(OrderNotFoundCode, "Order does not exist.")

	ErrInvalidGlobalID  = zerror.NewBadRequest(InvalidGlobalIDCode, "Invalid global ID.")
	ErrInvalidCursor    = zerror.NewBadRequest(InvalidCursorCode, "Invalid cursor.")
	ErrInvalidOrderBy   = zerror.NewValidationFailed(InvalidOrderByCode, "Invalid orderBy field.")
	ErrInvalidFilter    = zerror.NewValidationFailed(InvalidFilterCode, "Invalid filter value.")
	ErrInvalidPageRange = zerror.NewValidationFailed(InvalidPaginationCode, "Invalid pagination arguments.")

	ErrMutationRequiresPost = zerror.NewBadRequest(MutationRequiresPostCode, "Mutations must be sent with POST.")

	InternalServerErr = zerror.NewInternalServerError(InternalServerErrorCode, "internal server error")
)

// EmailAlreadyExists is the per-item form reported by bulk creation.
func EmailAlreadyExists(email string) error {
	return ErrEmailExists.WithMsg(fmt.Sprintf("Email '%s' already exists.", email))
}

func CustomerNotFound(id string) error {
	return ErrCustomerNotFound.WithMsg(fmt.Sprintf("Customer with ID %s does not exist.", id))
}

// BulkCreateFailed summarizes the per-item errors of a batch in which nothing
// was created. Each item is single-quoted unless it holds a single quote.
func BulkCreateFailed(errs []string) error {
	quoted := make([]string, 0, len(errs))
	for _, e := range errs {
		quoted = append(quoted, quoteItem(e))
	}
	return ErrBulkCreateFailed.WithMsg(fmt.Sprintf("All records failed to be created. Errors: [%s]", strings.Join(quoted, ", ")))
}

var itemEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// quoteItem prefers single quotes and switches to double quotes when s holds
// a single quote but no double quote.
func quoteItem(s string) string {
	s = itemEscaper.Replace(s)
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// IsClientError reports whether err is caused by the caller's input rather
// than by the server.
func IsClientError(err error) bool {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		return zErr.Status().IsClientError()
	}
	return validationMessage(err) != ""
}

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool {
	var zErr zerror.ZError
	return errors.As(err, &zErr) && zErr.Status() == zerror.StatusNotFound
}

// Message returns the caller-facing message of err. Errors that do not
// belong to the caller are reduced to a generic message.
func Message(err error) string {
	var zErr zerror.ZError
	if errors.As(err, &zErr) && zErr.Status().IsClientError() {
		if zErr.Is(ValidationErr) {
			if msg := validationMessage(zErr.Parent()); msg != "" {
				return msg
			}
		}
		return zErr.Msg()
	}

	if msg := validationMessage(err); msg != "" {
		return msg
	}

	return InternalServerErr.Msg()
}

func validationMessage(err error) string {
	var verrs govalidator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return ""
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+" "+validator.ValidationErrorMessage(fe))
	}
	return "Invalid input: " + strings.Join(parts, "; ") + "."
}
