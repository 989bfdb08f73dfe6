package domain

// Provider identifiers. Adding a provider means adding one identifier here
// and one adapter in pkg/pix.
const (
	ProviderMercadoPago = "mercadopago"
	ProviderPushinPay   = "pushinpay"
	ProviderAsaas       = "asaas"
	ProviderStripe      = "stripe"
	ProviderMock        = "mock"
)

const (
	PaymentMethodPix = "pix"

	DefaultCurrency          = "BRL"
	DefaultExpirationMinutes = 30
)
