/*
Package config loads the settings of a relocate run.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Reads an optional config file, picked by extension from the parser registry
- Layers RELOCATE_* environment overrides on top (see ApplyEnv)
- Builds the ordered, validated text.RuleSet used by a run

🔄 Precedence:
1. Default()
2. config file (Load)
3. environment (ApplyEnv)
4. command line flags (applied by the caller)

🔍 Example (YAML):

	root: ../src
	extensions: [".ts", ".tsx"]
	ignore: ["node_modules/**", "generated/**"]
	alias:
	  from: "@/hooks"
	  to: "@/lib/hooks"
	rules:
	  - name: stores
	    match: "@/stores/"
	    replace: "@/lib/stores/"

🔍 Example (HCL):

	root = "${env.HOME}/app/src"

	alias {
	  from = "@/hooks"
	  to   = "@/lib/hooks"
	}

	rule "stores" {
	  match   = "@/stores/"
	  replace = "@/lib/stores/"
	}
*/
package config
