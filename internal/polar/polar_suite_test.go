package polar_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPolar(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Polar Suite")
}
