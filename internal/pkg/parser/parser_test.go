package parser_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"finqa/internal/models"
	"finqa/internal/pkg/parser"
)

var _ = Describe("Parse", func() {
	It("reads JSON wrapped in prose", func() {
		p := parser.Parse(`Here's my answer: {"program": "divide(25587, 181001)", "answer": 0.14136} Hope that helps!`)
		Expect(p).To(Equal(models.Prediction{Program: "divide(25587, 181001)", Answer: 0.14136}))
	})

	It("reads JSON inside a markdown fence", func() {
		p := parser.Parse("```json\n{\n  \"program\": \"subtract(206588, 181001)\",\n  \"answer\": 25587\n}\n```")
		Expect(p).To(Equal(models.Prediction{Program: "subtract(206588, 181001)", Answer: 25587}))
	})

	It("defaults fields missing from valid JSON", func() {
		Expect(parser.Parse(`{"program": "add(1, 2)"}`)).To(Equal(models.Prediction{Program: "add(1, 2)"}))
		Expect(parser.Parse(`{"answer": -3.5}`)).To(Equal(models.Prediction{Answer: -3.5}))
		Expect(parser.Parse(`{}`)).To(Equal(models.Prediction{}))
	})

	It("coerces answers and programs of other JSON types", func() {
		Expect(parser.Parse(`{"program": 206588, "answer": "206588.0"}`)).
			To(Equal(models.Prediction{Program: "206588", Answer: 206588}))
		Expect(parser.Parse(`{"program": "x", "answer": "n/a"}`)).
			To(Equal(models.Prediction{Program: "x"}))
		Expect(parser.Parse(`{"program": null, "answer": null}`)).
			To(Equal(models.Prediction{}))
	})

	DescribeTable("drops answers that are not finite numbers",
		func(raw string) {
			Expect(parser.Parse(raw)).To(Equal(models.Prediction{Program: "p2"}))
		},
		Entry("NaN string", `{"program": "p2", "answer": "NaN"}`),
		Entry("Infinity string", `{"program": "p2", "answer": "Infinity"}`),
		Entry("negative infinity string", `{"program": "p2", "answer": "-inf"}`),
		Entry("overflowing number", `{"program": "p2", "answer": 1e400}`),
	)

	It("recovers the program alone without braces", func() {
		p := parser.Parse(`"program": "lookup(revenue)"`)
		Expect(p).To(Equal(models.Prediction{Program: "lookup(revenue)", Answer: 0.0}))
	})

	It("recovers fields from malformed JSON independently", func() {
		p := parser.Parse(`{"program": "divide(#0, 100)", "answer": -0.25,}`)
		Expect(p).To(Equal(models.Prediction{Program: "divide(#0, 100)", Answer: -0.25}))

		p = parser.Parse(`{"program": "foo", "answer": twelve`)
		Expect(p).To(Equal(models.Prediction{Program: "foo", Answer: 0.0}))

		p = parser.Parse(`the "answer": 42 is all I have`)
		Expect(p).To(Equal(models.Prediction{Answer: 42}))
	})

	It("returns the default prediction for plain text", func() {
		Expect(parser.Parse("I cannot answer that.")).To(Equal(models.Prediction{}))
		Expect(parser.Parse("")).To(Equal(models.Prediction{}))
	})
})

var _ = Describe("ParseJSON", func() {
	It("reports whether strict decoding succeeded", func() {
		_, ok := parser.ParseJSON(`{"program": "1", "answer": 1}`)
		Expect(ok).To(BeTrue())

		_, ok = parser.ParseJSON(`} nothing {`)
		Expect(ok).To(BeFalse())

		_, ok = parser.ParseJSON(`{'program': '1'}`)
		Expect(ok).To(BeFalse())
	})
})
