package jsonvalue_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmstream/pkg/jsonvalue"
)

var _ = Describe("Coercion", func() {
	var obj jsonvalue.Value

	BeforeEach(func() {
		var err error
		obj, err = jsonvalue.Parse([]byte(`{"s":"7","n":429,"f":1.5,"pad":" 3 ","word":"abc","o":{"k":1},"b":true}`))
		Expect(err).NotTo(HaveOccurred())
	})

	It("reads strings from strings and numbers", func() {
		Expect(*obj.LooseString("s")).To(Equal("7"))
		Expect(*obj.LooseString("n")).To(Equal("429"))
		Expect(*obj.LooseString("f")).To(Equal("1.5"))
		Expect(obj.LooseString("b")).To(BeNil())
		Expect(obj.LooseString("o")).To(BeNil())
		Expect(obj.LooseString("missing")).To(BeNil())
	})

	It("reads integers from numbers and numeric strings", func() {
		Expect(*obj.LooseInt("n")).To(Equal(429))
		Expect(*obj.LooseInt("s")).To(Equal(7))
		Expect(*obj.LooseInt("pad")).To(Equal(3))
		Expect(obj.LooseInt("f")).To(BeNil())
		Expect(obj.LooseInt("word")).To(BeNil())
		Expect(obj.LooseInt("b")).To(BeNil())
	})

	It("rejects integers outside the int range", func() {
		big, err := jsonvalue.Parse([]byte(`{"pos":1e20,"neg":-1e20,"huge":9223372036854775808,"edge":9.223372036854775807e18,"str":"99999999999999999999","whole":2e3}`))
		Expect(err).NotTo(HaveOccurred())

		Expect(big.LooseInt("pos")).To(BeNil())
		Expect(big.LooseInt("neg")).To(BeNil())
		Expect(big.LooseInt("huge")).To(BeNil())
		Expect(big.LooseInt("edge")).To(BeNil())
		Expect(big.LooseInt("str")).To(BeNil())
		Expect(*big.LooseInt("whole")).To(Equal(2000))

		_, ok := jsonvalue.Number("1e20").AsInt()
		Expect(ok).To(BeFalse())
	})

	It("reads only objects as objects", func() {
		o := obj.LooseObject("o")
		Expect(o).NotTo(BeNil())
		Expect(o.Kind()).To(Equal(jsonvalue.KindObject))
		Expect(obj.LooseObject("s")).To(BeNil())
	})

	It("returns nil when the receiver is not an object", func() {
		Expect(jsonvalue.String("x").LooseString("s")).To(BeNil())
	})
})
