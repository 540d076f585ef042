package validate_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"docverify/internal/config"
	"docverify/internal/domain"
	"docverify/internal/validate"
)

func commandSet(texts ...string) *domain.CommandSet {
	set := &domain.CommandSet{}
	for i, t := range texts {
		set.Add(t, i)
	}
	return set
}

func findingsByID(findings []domain.Finding, id string) []domain.Finding {
	var out []domain.Finding
	for _, f := range findings {
		if f.RuleID == id {
			out = append(out, f)
		}
	}
	return out
}

var _ = Describe("Validator", func() {
	Describe("required-pattern coverage", func() {
		var v *validate.Validator

		BeforeEach(func() {
			var err error
			v, err = validate.New(&config.ValidationConfig{
				Required: []config.Rule{
					{ID: "p", Pattern: `apt-get\s+install`, Message: "no install step"},
					{ID: "q", Pattern: `zypper`, Message: "no zypper step"},
				},
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should warn only for patterns no command matches", func() {
			findings := v.Check(commandSet("sudo apt-get install -y mina"))

			Expect(findingsByID(findings, "p")).To(BeEmpty())

			q := findingsByID(findings, "q")
			Expect(q).To(HaveLen(1))
			Expect(q[0].Severity).To(Equal(domain.SeverityWarning))
			Expect(q[0].CommandIndex).To(Equal(-1))
		})
	})

	Describe("danger patterns", func() {
		var v *validate.Validator

		BeforeEach(func() {
			var err error
			cfg := config.DefaultConfig()
			v, err = validate.New(&config.ValidationConfig{Danger: cfg.Validation.Danger})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should flag a recursive forced removal with elevated privileges as an error", func() {
			findings := v.Check(commandSet(
				"apt-get update",
				"sudo rm -rf /var/lib/mina",
			))
			danger := findingsByID(findings, "recursive-removal")
			Expect(danger).To(HaveLen(1))
			Expect(danger[0].Severity).To(Equal(domain.SeverityError))
			Expect(danger[0].CommandIndex).To(Equal(1))
		})

		It("should flag rm -fr spelling too", func() {
			findings := v.Check(commandSet("rm -fr /tmp/x"))
			Expect(findingsByID(findings, "recursive-removal")).To(HaveLen(1))
		})

		It("should not flag plain removals", func() {
			findings := v.Check(commandSet("rm key.asc"))
			Expect(findingsByID(findings, "recursive-removal")).To(BeEmpty())
		})
	})

	Describe("shell well-formedness", func() {
		var v *validate.Validator

		BeforeEach(func() {
			var err error
			v, err = validate.New(&config.ValidationConfig{})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should accept well-formed commands", func() {
			findings := v.Check(commandSet(
				`echo "deb [trusted=yes] https://example bullseye stable" | sudo tee /etc/apt/sources.list.d/mina.list`,
				"apt-get update && apt-get install -y pkg",
			))
			Expect(findingsByID(findings, "shell-syntax")).To(BeEmpty())
		})

		It("should report a parse failure with the offending command index", func() {
			findings := v.Check(commandSet(
				"apt-get update",
				`echo "unterminated`,
			))
			syntax := findingsByID(findings, "shell-syntax")
			Expect(syntax).To(HaveLen(1))
			Expect(syntax[0].Severity).To(Equal(domain.SeverityError))
			Expect(syntax[0].CommandIndex).To(Equal(1))
		})

		It("should report unclosed control structures", func() {
			findings := v.Check(commandSet("if true; then echo hi"))
			Expect(findingsByID(findings, "shell-syntax")).To(HaveLen(1))
		})
	})

	Describe("Blocking", func() {
		It("should report true only when an error-severity finding exists", func() {
			Expect(validate.Blocking(nil)).To(BeFalse())
			Expect(validate.Blocking([]domain.Finding{
				{Severity: domain.SeverityWarning},
			})).To(BeFalse())
			Expect(validate.Blocking([]domain.Finding{
				{Severity: domain.SeverityWarning},
				{Severity: domain.SeverityError},
			})).To(BeTrue())
		})
	})
})
