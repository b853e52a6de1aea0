/*
Package patcher runs a rule set against a single file on disk.

	+-------------+      +-------------+      +---------------+
	|  document   | ---> |    text     | ---> |   document    |
	|   (Load)    |      |  (Engine)   |      | (Save/Verify) |
	+-------------+      +-------------+      +---------------+

🎯 Purpose:
- Tie loading, rule application and writing into one call
- Print "Old:", "Fixed!" and "Could not find" lines for every rule
- Leave the file untouched unless a rule changed it

🔄 Flow:
1. Load the target (an IOError aborts the run)
2. Apply the rule set (invalid rules abort the run)
3. Stop if nothing changed
4. In dry-run mode render a line diff and stop
5. Back up the original when asked
6. Save, then verify the expectation

⚡ Error Policy:
- Unmatched rules are reported, never returned
- A failed verification is kept on the Report, the write is not undone

🔍 Example:

	p, err := patcher.New(patcher.Options{
		Store:  document.NewStore(document.Options{}),
		Logger: log.New(os.Stdout, zerolog.Nop()),
	})
	if err != nil {
		return err
	}
	report, err := p.Run(ctx, patcher.Job{
		Path:    "pom.xml",
		RuleSet: cfg.RuleSet(),
		Expect:  cfg.Expectation(),
	})
*/
package patcher
