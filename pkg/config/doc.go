/*
Package config loads rule-set files and the built-in presets for cfgpatch.

	                  +-------------+
	                  |   Config    |
	                  | (rule set)  |
	                  +------+------+
	                         |
	      +------------+-----+------+------------+
	      |            |            |            |
	+-----+----+ +-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    | |   TOML   |
	|  Parser  | |  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+ +----------+

🎯 Purpose:
- Parse rule sets from .yaml, .yml, .json, .hcl and .toml files
- Reject unknown fields so typos fail loudly
- Validate every rule before anything touches the target file
- Ship named presets embedded in the binary
- Pick up user presets from $XDG_CONFIG_HOME/cfgpatch/presets

🔄 Flow:
1. Pick a parser by file extension
2. Decode into Config
3. Validate through text.RuleSet
4. Hand RuleSet() and Expectation() to the patcher

📄 YAML:

	name: bump
	target: pom.xml
	rules:
	  - id: xgboost4j-version
	    match: "<version>1.6.1</version>"
	    replace: "<version>1.7.3</version>"
	expect:
	  contains: ["<version>1.7.3</version>"]

📄 HCL:

	name   = "bump"
	target = default_target

	rule "xgboost4j-version" {
	  match   = "<version>1.6.1</version>"
	  replace = "<version>1.7.3</version>"
	}

	expect {
	  contains = ["<version>1.7.3</version>"]
	}

🔍 Example:

	cfg, err := config.Load(ctx, ".cfgpatch.yaml")
	if err != nil {
		return err
	}
	result, err := engine.Apply(ctx, cfg.TargetPath(), content, cfg.RuleSet())
*/
package config
