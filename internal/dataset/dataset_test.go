package dataset_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"finqa/internal/dataset"
	"finqa/internal/models"
	"finqa/internal/testhelpers"
)

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

var _ = Describe("Load", func() {
	It("decodes items with typed turns", func() {
		items, err := dataset.Load(testhelpers.FixturePath("dataset.json"), 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(2))

		first := items[0]
		Expect(first.ID).To(Equal("Single_JKHY/2009/page_28.pdf-3"))
		Expect(first.FinancialReport.PreText).To(HaveLen(2))
		Expect(first.FinancialReport.Table).To(HaveLen(4))
		Expect(first.Conversation).To(HaveLen(4))
		Expect(*first.Conversation[3].ExpectedProgram).To(Equal("subtract(206588, 181001), divide(#0, 181001)"))
		Expect(*first.Conversation[3].ExpectedAnswer).To(Equal(0.14136))
		Expect(first.Conversation[3].Enhanced()).To(BeFalse())

		second := items[1]
		Expect(second.FinancialReport.PostText).To(BeEmpty())
		Expect(second.FinancialReport.PostText).NotTo(BeNil())
		Expect(*second.Conversation[0].ExpectedAnswer).To(Equal(14.7))
		Expect(second.Conversation[1].ExpectedProgram).To(BeNil())
		Expect(second.Conversation[1].ExpectedAnswer).To(BeNil())
	})

	It("keeps only the first items when limited", func() {
		items, err := dataset.Load(testhelpers.FixturePath("dataset.json"), 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(1))
		Expect(items[0].ID).To(Equal("Single_JKHY/2009/page_28.pdf-3"))
	})

	It("skips structurally broken items", func() {
		items, err := dataset.Load(testhelpers.FixturePath("dataset_invalid.json"), 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(1))
		Expect(items[0].ID).To(Equal("good-item"))
	})

	It("keeps items whose report text was written as empty strings", func() {
		path := writeFile(GinkgoT().TempDir(), "loader.json", `[{
			"id": "blank-text",
			"financial_report": {"pre_text": "", "post_text": "", "table": [["", "2009"], ["revenue", "$ 1,000"]]},
			"conversation": [{"question": "what was revenue?", "expected_answer": 1000}]
		}]`)

		items, err := dataset.Load(path, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(1))
		Expect(items[0].FinancialReport.PreText).To(BeEmpty())
		Expect(items[0].FinancialReport.PreText).NotTo(BeNil())
		Expect(items[0].FinancialReport.Table).To(HaveLen(2))
	})

	It("skips exactly the items Validate reports", func() {
		data := `[
			{"id": "a", "financial_report": {"pre_text": 7}, "conversation": []},
			{"id": "b", "financial_report": {"table": [["x"], "row"]}, "conversation": []},
			{"id": "c", "financial_report": {"pre_text": "", "table": ""}, "conversation": []}
		]`
		path := writeFile(GinkgoT().TempDir(), "mixed.json", data)

		items, err := dataset.Load(path, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(1))
		Expect(items[0].ID).To(Equal("c"))

		var validationErr *dataset.ValidationError
		Expect(errors.As(dataset.Validate([]byte(data)), &validationErr)).To(BeTrue())
		Expect(validationErr.Issues).To(Equal([]dataset.Issue{
			{Field: "Item 0", Message: "'pre_text' must be a list or string"},
			{Field: "Item 1", Message: "'table' must be a list of rows"},
		}))
	})

	It("rejects files that are not a non-empty array", func() {
		dir := GinkgoT().TempDir()

		_, err := dataset.Load(writeFile(dir, "object.json", `{"id": "x"}`), 0)
		Expect(err).To(MatchError(dataset.ErrNotArray))

		_, err = dataset.Load(writeFile(dir, "empty.json", `[]`), 0)
		Expect(err).To(MatchError(dataset.ErrEmptyDataset))

		_, err = dataset.Load(writeFile(dir, "broken.json", `[{"id": `), 0)
		Expect(err).To(MatchError(dataset.ErrInvalidJSON))

		_, err = dataset.Load(filepath.Join(dir, "missing.json"), 0)
		Expect(err).To(MatchError(os.ErrNotExist))
	})
})

var _ = Describe("Save", func() {
	It("writes indented JSON with predicted fields and creates directories", func() {
		program := "divide(1, 2)"
		answer := 0.5
		items := []models.Item{{
			ID: "a&b",
			FinancialReport: models.FinancialReport{
				PreText:  []string{"<b>bold</b>"},
				PostText: []string{},
				Table:    [][]any{{"Name", "Value"}, {"Revenue", "1000"}},
			},
			Conversation: []models.ConversationTurn{
				models.Enhance(models.ConversationTurn{Question: "q", ExpectedProgram: &program, ExpectedAnswer: &answer}, models.Prediction{Program: "p", Answer: 2}),
			},
		}}

		path := filepath.Join(GinkgoT().TempDir(), "out", "predictions.json")
		Expect(dataset.Save(path, items)).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("\n  {\n    \"id\": \"a&b\""))
		Expect(string(data)).To(ContainSubstring("<b>bold</b>"))
		Expect(string(data)).To(MatchJSON(`[{
			"id": "a&b",
			"financial_report": {
				"pre_text": ["<b>bold</b>"],
				"post_text": [],
				"table": [["Name", "Value"], ["Revenue", "1000"]]
			},
			"conversation": [{
				"question": "q",
				"expected_program": "divide(1, 2)",
				"expected_answer": 0.5,
				"predicted_program": "p",
				"predicted_answer": 2
			}]
		}]`))

		reloaded, err := dataset.Load(path, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(reloaded).To(Equal(items))
	})
})

var _ = Describe("LimitedOutputPath", func() {
	It("inserts the limit before the extension", func() {
		Expect(dataset.LimitedOutputPath("data/output/predictions.json", 5)).To(Equal("data/output/predictions_first_5.json"))
		Expect(dataset.LimitedOutputPath("predictions", 2)).To(Equal("predictions_first_2"))
		Expect(dataset.LimitedOutputPath("predictions.json", 0)).To(Equal("predictions.json"))
	})
})
