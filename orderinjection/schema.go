package orderinjection

import (
	g "github.com/reoring/nsconnector/dsl"
	r "github.com/reoring/nsconnector/rules"
)

// Channel types accepted by the order injection API.
var ChannelTypes = []any{"web", "mobile", "store"}

// PriceMethods selects whether item prices include tax.
var PriceMethods = []any{"tax_included", "tax_excluded"}

// PaymentTypes accepted on injected payments.
var PaymentTypes = []any{"authorized", "captured"}

// DiscountTypes accepted on discount info entries.
var DiscountTypes = []any{"fixed"}

// Currencies is the fixed set of ISO-4217 codes accepted for orders.
var Currencies = []any{
	"AED", "AFN", "ALL", "AMD", "ANG", "AOA", "ARS", "AUD", "AWG", "AZN",
	"BAM", "BBD", "BDT", "BGN", "BHD", "BIF", "BMD", "BND", "BOB", "BRL",
	"BSD", "BTN", "BWP", "BYN", "BZD", "CAD", "CDF", "CHF", "CLP", "CNY",
	"COP", "CRC", "CUP", "CVE", "CZK", "DJF", "DKK", "DOP", "DZD", "EGP",
	"ERN", "ETB", "EUR", "FJD", "FKP", "GBP", "GEL", "GHS", "GIP", "GMD",
	"GNF", "GTQ", "GYD", "HKD", "HNL", "HTG", "HUF", "IDR", "ILS", "INR",
	"IQD", "IRR", "ISK", "JMD", "JOD", "JPY", "KES", "KGS", "KHR", "KMF",
	"KPW", "KRW", "KWD", "KYD", "KZT", "LAK", "LBP", "LKR", "LRD", "LSL",
	"LYD", "MAD", "MDL", "MGA", "MKD", "MMK", "MNT", "MOP", "MRU", "MUR",
	"MVR", "MWK", "MXN", "MYR", "MZN", "NAD", "NGN", "NIO", "NOK", "NPR",
	"NZD", "OMR", "PAB", "PEN", "PGK", "PHP", "PKR", "PLN", "PYG", "QAR",
	"RON", "RSD", "RUB", "RWF", "SAR", "SBD", "SCR", "SDG", "SEK", "SGD",
	"SHP", "SLE", "SOS", "SRD", "SSP", "STN", "SVC", "SYP", "SZL", "THB",
	"TJS", "TMT", "TND", "TOP", "TRY", "TTD", "TWD", "TZS", "UAH", "UGX",
	"USD", "UYU", "UZS", "VES", "VND", "VUV", "WST", "XAF", "XCD", "XOF",
	"XPF", "YER", "ZAR", "ZMW", "ZWL",
}

// OrderSchema describes the create-order payload.
func OrderSchema() *g.Schema {
	return g.Object().
		Field("external_id", r.Required(), r.IsType(r.String)).
		Field("shop", r.Required(), r.IsType(r.String)).
		Field("channel_type", r.Required(), r.IsType(r.String), r.IsIn(ChannelTypes...)).
		Field("channel_name", r.Required(), r.IsType(r.String)).
		Field("shop_locale", r.Required(), r.IsType(r.String)).
		Field("currency", r.Required(), r.IsType(r.String), r.IsIn(Currencies...)).
		Field("store_id", r.IsType(r.String)).
		Field("associate_id", r.IsType(r.String)).
		Field("customer_name", r.IsType(r.String)).
		Field("customer_email", r.IsType(r.String), r.Email()).
		Field("customer_language", r.IsType(r.String), r.Length(0, 2)).
		Field("external_customer_id", r.IsType(r.String)).
		Field("placed_at", r.IsType(r.String)).
		Field("ip_address", r.IsType(r.String)).
		Field("shipping_address", AddressSchema()).
		Field("billing_address", AddressSchema()).
		Field("shipments", r.Required(), r.IsType(r.List), g.Each(ShipmentSchema())).
		Field("extended_attributes", r.IsType(r.List), g.Each(ExtendedAttributeSchema())).
		Field("payments", r.IsType(r.List), g.Each(PaymentSchema())).
		Field("price_method", r.IsType(r.String), r.IsIn(PriceMethods...)).
		Field("is_preconfirmed", r.IsType(r.Bool)).
		Field("is_fulfilled", r.IsType(r.Bool)).
		Field("is_offline", r.IsType(r.Bool)).
		Field("is_historical", r.IsType(r.Bool)).
		Field("notification_blacklist", r.IsType(r.List), r.Items(r.String)).
		MustBuild()
}

// AddressSchema describes shipping and billing addresses.
func AddressSchema() *g.Schema {
	return g.Object().
		Field("country", r.Required(), r.IsType(r.String), r.Length(2, 2)).
		Field("address_line_1", r.Required(), r.IsType(r.String), r.Length(1, 0)).
		Field("first_name", r.IsType(r.String), r.Length(0, 256)).
		Field("last_name", r.IsType(r.String), r.Length(0, 256)).
		Field("title", r.IsType(r.String), r.Length(0, 32)).
		Field("salutation", r.IsType(r.String), r.Length(0, 32)).
		Field("zip_code", r.IsType(r.String), r.Length(0, 32)).
		Field("city", r.IsType(r.String), r.Length(0, 256)).
		Field("state", r.IsType(r.String), r.Length(0, 256)).
		Field("phone", r.IsType(r.String), r.Length(0, 32)).
		Field("address_line_2", r.IsType(r.String), r.Length(0, 256)).
		MustBuild()
}

// ShipmentSchema describes one shipment: its items and how it ships.
func ShipmentSchema() *g.Schema {
	return g.Object().
		Field("items", r.Required(), r.IsType(r.List), r.Length(1, 0), g.Each(ItemSchema())).
		Field("shipping_option", r.Required(), ShippingOptionSchema()).
		MustBuild()
}

// ItemSchema describes one ordered item.
func ItemSchema() *g.Schema {
	return g.Object().
		Field("external_item_id", r.Required(), r.IsType(r.String), r.Length(1, 64)).
		Field("product_id", r.Required(), r.IsType(r.String), r.Length(1, 64)).
		Field("price", r.Required(), PriceSchema()).
		Field("gift_wrapping", r.IsType(r.Bool)).
		Field("extended_attributes", r.IsType(r.List), g.Each(ExtendedAttributeSchema())).
		MustBuild()
}

// PriceSchema describes the price of an item, with its tax lines and
// order-level discounts.
func PriceSchema() *g.Schema {
	return g.Object().
		Field("item_price", r.Required(), r.IsType(r.Numeric...)).
		Field("item_list_price", r.Required(), r.IsType(r.Numeric...)).
		Field("item_tax_lines", r.Required(), r.IsType(r.List), r.Length(1, 0), g.Each(TaxLineSchema())).
		Field("item_order_discount_info", r.IsType(r.List), g.Each(DiscountSchema())).
		Field("pricebook", r.IsType(r.String), r.Length(0, 64)).
		Field("group_ref", r.IsType(r.String), r.Length(0, 64)).
		MustBuild()
}

// TaxLineSchema describes one tax applied to a price. rate is a fraction.
func TaxLineSchema() *g.Schema {
	return g.Object().
		Field("amount", r.Required(), r.IsType(r.Numeric...)).
		Field("rate", r.Required(), r.IsType(r.Float), r.Min(0), r.Max(1)).
		Field("name", r.Required(), r.IsType(r.String)).
		Field("country_code", r.IsType(r.String), r.Length(2, 2)).
		MustBuild()
}

// DiscountSchema describes a discount applied to an item or shipping option.
func DiscountSchema() *g.Schema {
	return g.Object().
		Field("discount_ref", r.Required(), r.IsType(r.String), r.Length(0, 256)).
		Field("coupon_code", r.IsType(r.String)).
		Field("description", r.IsType(r.String)).
		Field("type", r.Required(), r.IsType(r.String), r.IsIn(DiscountTypes...)).
		Field("original_value", r.Required(), r.IsType(r.Numeric...), r.Min(0)).
		Field("price_adjustment", r.Required(), r.IsType(r.Numeric...), r.Min(0)).
		MustBuild()
}

// ShippingOptionSchema describes the service level and cost of a shipment.
func ShippingOptionSchema() *g.Schema {
	return g.Object().
		Field("service_level_identifier", r.Required(), r.IsType(r.String), r.Length(1, 64)).
		Field("price", r.Required(), r.IsType(r.Numeric...), r.Min(0)).
		Field("tax", r.Required(), r.IsType(r.Numeric...), r.Min(0)).
		Field("discount_info", r.IsType(r.List), g.Each(DiscountSchema())).
		Field("routing_strategy", RoutingStrategySchema()).
		MustBuild()
}

// RoutingStrategySchema describes an explicit fulfillment routing strategy.
func RoutingStrategySchema() *g.Schema {
	return g.Object().
		Field("strategy", r.Required(), r.IsType(r.String)).
		MustBuild()
}

// PaymentSchema describes a payment already processed for the order.
func PaymentSchema() *g.Schema {
	return g.Object().
		Field("type", r.Required(), r.IsType(r.String), r.IsIn(PaymentTypes...)).
		Field("amount", r.Required(), r.IsType(r.Numeric...), r.Min(0.01)).
		Field("method", r.Required(), r.IsType(r.String), r.Length(1, 64)).
		Field("wallet", r.IsType(r.String), r.Length(1, 64)).
		Field("processed_at", r.Required(), r.IsType(r.String)).
		Field("metadata", r.IsType(r.Object), r.Length(0, 100)).
		Field("processor", r.Required(), r.IsType(r.String), r.Length(1, 32)).
		Field("correlation_ref", r.Required(), r.IsType(r.String), r.Length(1, 128)).
		MustBuild()
}

// ExtendedAttributeSchema describes a free-form name/value pair.
func ExtendedAttributeSchema() *g.Schema {
	return g.Object().
		Field("name", r.Required(), r.IsType(r.String), r.Length(1, 100)).
		Field("value", r.Required(), r.IsType(r.String), r.Length(0, 8192)).
		MustBuild()
}
