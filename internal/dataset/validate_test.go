package dataset_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"finqa/internal/dataset"
	"finqa/internal/testhelpers"
)

var _ = Describe("Validate", func() {
	It("accepts a well formed dataset", func() {
		data, err := testhelpers.LoadFixture("dataset.json")
		Expect(err).NotTo(HaveOccurred())
		Expect(dataset.Validate(data)).To(Succeed())
	})

	It("collects every issue instead of stopping at the first", func() {
		data, err := testhelpers.LoadFixture("dataset_invalid.json")
		Expect(err).NotTo(HaveOccurred())

		err = dataset.Validate(data)
		var validationErr *dataset.ValidationError
		Expect(errors.As(err, &validationErr)).To(BeTrue())

		Expect(validationErr.Issues).To(Equal([]dataset.Issue{
			{Field: "Item 0", Message: "Missing required field 'id'"},
			{Field: "Item 0", Message: "'financial_report' must be an object"},
			{Field: "Item 0, Turn 1", Message: "Missing 'question' field"},
			{Field: "Item 0, Turn 2", Message: "Turn must be an object"},
			{Field: "Item 2", Message: "Must be an object"},
			{Field: "Item 3", Message: "'conversation' must be a list"},
		}))
		Expect(err.Error()).To(HavePrefix("dataset validation failed with 6 issue(s):\n"))
		Expect(err.Error()).To(ContainSubstring("Item 0, Turn 1: Missing 'question' field"))
	})

	It("reports shape errors of the whole file", func() {
		Expect(dataset.Validate([]byte(`{}`))).To(MatchError(dataset.ErrNotArray))
		Expect(dataset.Validate([]byte(`[]`))).To(MatchError(dataset.ErrEmptyDataset))
		Expect(dataset.Validate([]byte(`not json`))).To(MatchError(dataset.ErrInvalidJSON))
	})
})
