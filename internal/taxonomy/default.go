package taxonomy

import "resumerefiner/internal/errors"

// Default returns the built-in skill taxonomy, used when no taxonomy file is
// configured. Category order matters: it drives report ordering and
// first-match-wins collision resolution.
func Default(logger *errors.Logger) *Taxonomy {
	t, err := build(defaultCategories, logger)
	if err != nil {
		// The built-in data is static; a build failure here is a programming
		// error, not a runtime condition.
		panic(err)
	}
	return t
}

var defaultCategories = []CategoryDef{
	{
		Name: "programming_languages",
		Skills: []SkillDef{
			{Name: "python", Synonyms: []string{"python3"}},
			{Name: "java"},
			{Name: "javascript", Synonyms: []string{"js", "ecmascript"}},
			{Name: "typescript", Synonyms: []string{"ts"}},
			{Name: "c++", Synonyms: []string{"cpp"}},
			{Name: "c#", Synonyms: []string{"csharp"}},
			{Name: "php"},
			{Name: "ruby"},
			{Name: "go", Synonyms: []string{"golang"}},
			{Name: "rust"},
			{Name: "swift"},
			{Name: "kotlin"},
			{Name: "scala"},
			{Name: "r"},
			{Name: "matlab"},
			{Name: "sql"},
			{Name: "perl"},
			{Name: "haskell"},
		},
	},
	{
		Name: "web_technologies",
		Skills: []SkillDef{
			{Name: "html", Synonyms: []string{"html5"}},
			{Name: "css", Synonyms: []string{"css3"}},
			{Name: "sass"},
			{Name: "less"},
			{Name: "react", Synonyms: []string{"reactjs", "react.js"}},
			{Name: "angular", Synonyms: []string{"angularjs"}},
			{Name: "vue", Synonyms: []string{"vuejs", "vue.js"}},
			{Name: "node.js", Synonyms: []string{"nodejs", "node"}},
			{Name: "express", Synonyms: []string{"expressjs", "express.js"}},
			{Name: "django"},
			{Name: "flask"},
			{Name: "spring", Synonyms: []string{"spring boot"}},
			{Name: "laravel"},
			{Name: "jquery"},
			{Name: "bootstrap"},
			{Name: "webpack"},
			{Name: "gatsby"},
		},
	},
	{
		Name: "databases",
		Skills: []SkillDef{
			{Name: "mysql"},
			{Name: "postgresql", Synonyms: []string{"postgres"}},
			{Name: "mongodb", Synonyms: []string{"mongo"}},
			{Name: "redis"},
			{Name: "elasticsearch"},
			{Name: "oracle"},
			{Name: "sqlite"},
			{Name: "cassandra"},
			{Name: "dynamodb"},
			{Name: "neo4j"},
			{Name: "mariadb"},
			{Name: "couchdb"},
			{Name: "firebase"},
		},
	},
	{
		Name: "cloud_devops",
		Skills: []SkillDef{
			{Name: "aws", Synonyms: []string{"amazon web services"}},
			{Name: "azure"},
			{Name: "gcp", Synonyms: []string{"google cloud", "google cloud platform"}},
			{Name: "docker"},
			{Name: "kubernetes", Synonyms: []string{"k8s"}},
			{Name: "jenkins"},
			{Name: "gitlab"},
			{Name: "github actions"},
			{Name: "terraform"},
			{Name: "ansible"},
			{Name: "chef"},
			{Name: "puppet"},
			{Name: "circleci"},
			{Name: "nginx"},
			{Name: "apache"},
		},
	},
	{
		Name: "data_science_ml",
		Skills: []SkillDef{
			{Name: "machine learning", Synonyms: []string{"ml"}},
			{Name: "deep learning"},
			{Name: "tensorflow"},
			{Name: "pytorch"},
			{Name: "scikit-learn", Synonyms: []string{"sklearn"}},
			{Name: "pandas"},
			{Name: "numpy"},
			{Name: "matplotlib"},
			{Name: "keras"},
			{Name: "opencv"},
			{Name: "nlp", Synonyms: []string{"natural language processing"}},
			{Name: "computer vision"},
		},
	},
	{
		Name: "soft_skills",
		Skills: []SkillDef{
			{Name: "leadership"},
			{Name: "communication"},
			{Name: "teamwork"},
			{Name: "problem solving", Synonyms: []string{"problem-solving"}},
			{Name: "project management"},
			{Name: "analytical"},
			{Name: "time management"},
			{Name: "creativity"},
			{Name: "collaboration"},
			{Name: "adaptability"},
		},
	},
}
