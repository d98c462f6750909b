package scaffold

// Built-in run card templates, keyed by their include name in the spec.
var templateFiles = map[string]string{
	"tweet_thread":     "tweet_thread.yaml",
	"product_overview": "product_overview.yaml",
	"plan10":           "10_step_plan.yaml",
	"faq":              "faq.yaml",
	"readme":           "readme.yaml",
}

var templates = map[string]string{
	"tweet_thread": `id: tweet_thread.v1
description: "3-post launch teaser thread"
schema: { posts: "list[string]" }
constraints: { max_chars_per_post: 280, required: [concrete_next_action_in_post3], mirrors_target: 0.08 }
style: { tone: "confident, grounded, no hype", banlist: ["revolutionary","game-changing","magical"] }
`,
	"product_overview": `id: product_overview.v1
description: "1-page product overview"
schema: { title: string, summary: string, who_it_is_for: "list[string]", outcomes: "list[string]", how_it_works: "list[string]", differentiators: "list[string]", cta: string }
constraints: { length: "400-600 words", mirrors_target: 0.08 }
style: { tone: "clear, engineering-first" }
`,
	"plan10": `id: plan10.v1
description: "Deterministic 10-step task plan"
schema: { steps: "list[object]", step_fields: ["number","action","owner","duration","dependencies"] }
constraints: { require_owner: true, require_next_action: true, mirrors_target: 0.06 }
style: { tone: "directive, no fluff" }
`,
	"faq": `id: faq.v1
description: "5 Q/A customer FAQ bound to overview"
schema: { items: "list[object]", item_fields: ["q","a"] }
constraints: { non_contradiction_with: product_overview.v1, mirrors_target: 0.08 }
style: { tone: "helpful, precise" }
`,
	"readme": `id: readme.v1
description: "README for the mask workspace"
schema: { name: string, purpose: string, quickstart: "list[string]", files: "list[string]", run_cards: "list[string]" }
constraints: { include_sections: ["Purpose","Files","Quickstart","Run Cards"], mirrors_target: 0.08 }
style: { tone: "grounded, minimal" }
`,
}
