package normalize_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"docverify/internal/config"
	"docverify/internal/domain"
	"docverify/internal/normalize"
)

func rawBlocks(texts ...string) []domain.RawBlock {
	blocks := make([]domain.RawBlock, len(texts))
	for i, t := range texts {
		blocks[i] = domain.RawBlock{Text: t, StartLine: i + 1, EndLine: i + 1}
	}
	return blocks
}

var _ = Describe("Normalizer", func() {
	var n *normalize.Normalizer

	BeforeEach(func() {
		var err error
		n, err = normalize.New(&config.CommandConfig{
			Denylist: []config.Rule{
				{ID: "distro-query", Pattern: `^lsb_release\b`, Message: "informational"},
			},
		})
		Expect(err).ToNot(HaveOccurred())
	})

	It("should yield N commands for N distinct blocks in original order", func() {
		set := n.Normalize(rawBlocks(
			"wget https://example/key.asc -O key.asc",
			"gpg --import key.asc",
			"apt-get update && apt-get install -y pkg",
		))
		Expect(set.Len()).To(Equal(3))
		Expect(set.At(0).Text).To(Equal("wget https://example/key.asc -O key.asc"))
		Expect(set.At(1).Text).To(Equal("gpg --import key.asc"))
		Expect(set.At(2).Text).To(Equal("apt-get update && apt-get install -y pkg"))
		Expect(set.At(2).Index).To(Equal(2))
	})

	It("should keep only the first occurrence of duplicate text", func() {
		set := n.Normalize(rawBlocks(
			"gpg --import key.asc",
			"apt-get update",
			"gpg --import key.asc",
		))
		Expect(set.Len()).To(Equal(2))
		Expect(set.At(0).Text).To(Equal("gpg --import key.asc"))
		Expect(set.At(0).Origin).To(Equal(0))
		Expect(set.At(1).Text).To(Equal("apt-get update"))
	})

	It("should decode the standard entity escapes", func() {
		set := n.Normalize(rawBlocks("echo &lt;a&gt;&amp;b&gt; &quot;x&quot;"))
		Expect(set.Len()).To(Equal(1))
		Expect(set.At(0).Text).To(Equal(`echo <a>&b> "x"`))
	})

	It("should trim surrounding whitespace and blank lines", func() {
		set := n.Normalize(rawBlocks("\n\n  apt-get update  \n\n"))
		Expect(set.Len()).To(Equal(1))
		Expect(set.At(0).Text).To(Equal("apt-get update"))
	})

	It("should drop empty and whitespace-only blocks", func() {
		set := n.Normalize(rawBlocks("", "   \n\t  "))
		Expect(set.Len()).To(Equal(0))
	})

	It("should drop blocks still containing a literal markup tag", func() {
		set := n.Normalize(rawBlocks(`apt-get update <span class="x">now</span>`))
		Expect(set.Len()).To(Equal(0))
	})

	It("should drop blocks starting with stray punctuation", func() {
		set := n.Normalize(rawBlocks("> quoted output", "- list item", "} remnant"))
		Expect(set.Len()).To(Equal(0))
	})

	It("should accept environment-variable assignments and path starts", func() {
		set := n.Normalize(rawBlocks(
			"MINA_NETWORK=devnet mina daemon",
			"/usr/local/bin/mina --version",
			"~/bin/setup.sh",
			"$HOME/bin/setup.sh",
		))
		Expect(set.Len()).To(Equal(4))
	})

	It("should drop denylisted informational commands", func() {
		set := n.Normalize(rawBlocks(
			"lsb_release -cs",
			"apt-get update",
		))
		Expect(set.Len()).To(Equal(1))
		Expect(set.At(0).Text).To(Equal("apt-get update"))
	})

	It("should not drop commands merely embedding a denylisted query", func() {
		set := n.Normalize(rawBlocks(`echo "deb https://example $(lsb_release -cs) stable"`))
		Expect(set.Len()).To(Equal(1))
	})
})
