package text_test

import (
	"context"
	"fmt"

	"github.com/walteh/cfgpatch/pkg/text"
)

func ExampleEngine_Apply() {
	engine := text.NewEngine()

	rules := text.RuleSet{
		Name: "demo",
		Rules: []text.Rule{
			{ID: "cut", Kind: text.KindTruncate, Match: "</project>"},
			{ID: "bump", Kind: text.KindPattern, Match: `1\.6\.\d`, Replace: "1.7.3"},
			{ID: "repos", Kind: text.KindInsert, Match: "</project>", Replace: "<repositories/>", Unless: "<repositories"},
		},
	}

	content := []byte("<project><version>1.6.1</version></project><project></project>")

	result, err := engine.Apply(context.Background(), "pom.xml", content, rules)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Modified: %s\n", result.ModifiedContent)
	fmt.Printf("Applied: %v\n", result.Applied)
	fmt.Printf("Outcome: %s\n", result.Outcome)

	// Output:
	// Modified: <project><version>1.7.3</version><repositories/></project>
	// Applied: [cut bump repos]
	// Outcome: modified
}

func ExampleRuleSet_Validate() {
	rules := text.RuleSet{
		Rules: []text.Rule{
			{ID: "ok", Match: "foo", Replace: "bar"},
			{ID: "ok", Match: "baz", Replace: "qux"},
		},
	}

	err := rules.Validate()
	fmt.Println(err != nil)

	// Output:
	// true
}
