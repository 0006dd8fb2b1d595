package valueobjects

import (
	"math/rand"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// productIDAlphabet omits characters that are easily confused when read aloud or handwritten.
const productIDAlphabet = "ACDEFHJKLMNPRTUVWXY34679"

var productIDPattern = regexp.MustCompile(`^P\.[` + productIDAlphabet + `]{3}-[` + productIDAlphabet + `]{3}$`)

// ProductID is the business identifier of a product, formatted P.XXX-XXX.
type ProductID string

// NewProductID generates a random product id
func NewProductID() ProductID {
	var sb strings.Builder
	sb.WriteString("P.")
	for i := 0; i < 7; i++ {
		if i == 3 {
			sb.WriteByte('-')
			continue
		}
		sb.WriteByte(productIDAlphabet[rand.Intn(len(productIDAlphabet))])
	}
	return ProductID(sb.String())
}

// ParseProductID validates an existing product id
func ParseProductID(id string) (ProductID, error) {
	if !IsProductID(id) {
		return "", invalidFormat("product id", id)
	}
	return ProductID(id), nil
}

// IsProductID reports whether id has the product id format
func IsProductID(id string) bool {
	return productIDPattern.MatchString(id)
}

// String returns the string representation of the ProductID
func (id ProductID) String() string {
	return string(id)
}

// NewID returns a new random entity identifier
func NewID() string {
	return uuid.New().String()
}

// IsUUID reports whether id parses as a UUID
func IsUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
