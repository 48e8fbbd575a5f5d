package backend

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/merchware/scanlink/pkg/db"
	"github.com/merchware/scanlink/pkg/model"
)

const defaultPurchaseQuantity = 1

var variantGIDPattern = regexp.MustCompile(`gid://shopify/ProductVariant/([0-9]+)`)

// ResolveDestinationURL computes the redirect target for a record. Pure: no
// storage access, no side effects.
func ResolveDestinationURL(record db.Record) (string, error) {
	base, err := url.Parse(record.ShopDomain)
	if err != nil {
		return "", err
	}

	switch record.Destination {
	case model.DestinationProduct:
		return productViewURL(base, record.Handle, record.DiscountCode), nil
	case model.DestinationCheckout:
		return productCheckoutURL(base, record.VariantID, defaultPurchaseQuantity, record.DiscountCode), nil
	}

	return "", &model.UnrecognizedDestinationError{Value: string(record.Destination)}
}

// productViewURL lands on the product page. A discount code redeems first and
// carries the product path along as the redirect target.
func productViewURL(base *url.URL, handle, discountCode string) string {
	u := *base
	productPath := "/products/" + handle

	if discountCode != "" {
		u.Path = "/discount/" + discountCode
		query := u.Query()
		query.Set("redirect", productPath)
		u.RawQuery = query.Encode()
	} else {
		u.Path = productPath
	}

	return u.String()
}

// productCheckoutURL puts the variant in the cart; the cart URL resolves to a
// checkout. The variant GID prefix is stripped, the remainder is opaque.
func productCheckoutURL(base *url.URL, variantID string, quantity int, discountCode string) string {
	u := *base
	id := variantGIDPattern.ReplaceAllString(variantID, "$1")
	u.Path = fmt.Sprintf("/cart/%s:%d", id, quantity)

	if discountCode != "" {
		query := u.Query()
		query.Set("discount", discountCode)
		u.RawQuery = query.Encode()
	}

	return u.String()
}
