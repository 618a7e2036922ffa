package models_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"finqa/internal/models"
)

var _ = Describe("FinancialReport", func() {
	decode := func(raw string) (models.FinancialReport, error) {
		var report models.FinancialReport
		err := json.Unmarshal([]byte(raw), &report)
		return report, err
	}

	It("decodes list fields as they are", func() {
		report, err := decode(`{"pre_text": ["a", "b"], "post_text": [], "table": [["h", "2009"], ["x", "1,000"]]}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.PreText).To(Equal([]string{"a", "b"}))
		Expect(report.PostText).To(BeEmpty())
		Expect(report.PostText).NotTo(BeNil())
		Expect(report.Table).To(Equal([][]any{{"h", "2009"}, {"x", "1,000"}}))
	})

	It("treats empty string text as present but empty", func() {
		report, err := decode(`{"pre_text": "", "post_text": "", "table": ""}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.PreText).To(BeEmpty())
		Expect(report.PreText).NotTo(BeNil())
		Expect(report.PostText).NotTo(BeNil())
		Expect(report.Table).To(BeNil())
	})

	It("keeps a single string as one paragraph", func() {
		report, err := decode(`{"pre_text": "only line", "post_text": [1.5, "x"]}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.PreText).To(Equal([]string{"only line"}))
		Expect(report.PostText).To(Equal([]string{"1.5", "x"}))
	})

	It("leaves missing and null fields absent", func() {
		report, err := decode(`{"pre_text": null}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.PreText).To(BeNil())
		Expect(report.PostText).To(BeNil())
		Expect(report.Table).To(BeNil())
	})

	It("rejects text and table fields of other types", func() {
		_, err := decode(`{"pre_text": 3}`)
		Expect(err).To(MatchError(ContainSubstring("pre_text")))

		_, err = decode(`{"table": {"a": 1}}`)
		Expect(err).To(MatchError(ContainSubstring("table")))
	})
})
