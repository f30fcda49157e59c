package config

const (
	defaultConfigPath       = "~/.config/coderdist/config.toml"
	projectConfigName       = "coderdist.toml"
	defaultCorpusDir        = "articles"
	defaultOutputDir        = "coding"
	defaultCoders           = 5
	defaultCodersPerArticle = 2
	defaultFirstID          = 1
	defaultCorpusPattern    = "*.csv"
	defaultTitleColumn      = "Title"
	defaultBodyColumn       = "Body"
	defaultEngine           = "latexmk"
	defaultOutputExtension  = ".pdf"
	defaultEngineTimeout    = 600
	defaultWorkers          = 1
	defaultDocumentTitle    = "Manual Coding Articles - Coder %d"
	defaultArticleMap       = "article_map.json"
	defaultCodingTemplate   = "coding_data.csv"
	defaultResultsIDColumn  = "Article #"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// DefaultCodingColumns are the empty columns written to the coding template.
func DefaultCodingColumns() []string {
	return []string{"Valence", "Hopes", "Fears", "Frame", "Credibility", "Detail"}
}

// DefaultEngineArgs are passed to the typesetting engine ahead of the document path.
func DefaultEngineArgs() []string {
	return []string{"-pdf", "-interaction=nonstopmode"}
}

// DefaultSourceAliases maps source file names to canonical publication names.
func DefaultSourceAliases() map[string]string {
	return map[string]string{
		"WSJ":                             "Wall Street Journal",
		"New York Times Opinion Letters":  "New York Times Opinion",
		"Washington Post Opinion Letters": "Washington Post Opinion",
	}
}

// DefaultResultFields maps short query field names to results spreadsheet headers.
func DefaultResultFields() map[string]string {
	return map[string]string{
		"valence":     "Valence",
		"hopes":       "Hopes",
		"fears":       "Fears",
		"frame":       "Frame",
		"credibility": "Credibility",
		"detail":      "Detail",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CorpusDir: defaultCorpusDir,
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir(),
		},
		Assignment: Assignment{
			Coders:           defaultCoders,
			CodersPerArticle: defaultCodersPerArticle,
			FirstID:          defaultFirstID,
		},
		Corpus: Corpus{
			Pattern:     defaultCorpusPattern,
			TitleColumn: defaultTitleColumn,
			BodyColumn:  defaultBodyColumn,
		},
		Sources: Sources{
			Aliases: DefaultSourceAliases(),
		},
		Typesetting: Typesetting{
			Engine:          defaultEngine,
			Args:            DefaultEngineArgs(),
			OutputExtension: defaultOutputExtension,
			TimeoutSeconds:  defaultEngineTimeout,
			Workers:         defaultWorkers,
			DocumentTitle:   defaultDocumentTitle,
		},
		Export: Export{
			ArticleMap:      defaultArticleMap,
			CodingTemplate:  defaultCodingTemplate,
			TemplateColumns: DefaultCodingColumns(),
		},
		Results: Results{
			IDColumn:     defaultResultsIDColumn,
			CodedColumns: DefaultCodingColumns(),
			Fields:       DefaultResultFields(),
		},
		Ledger: Ledger{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
