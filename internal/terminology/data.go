package terminology

// builtinTerms holds the built-in Portuguese→English term tables, partitioned
// by domain. Source phrases are folded to lower case at load time.
var builtinTerms = map[Domain]map[string]string{
	DomainStructural: {
		// Steel and materials
		"aço ASTM A572 Grau 50":    "ASTM A572 Grade 50 steel",
		"vigas W":                  "W-beams",
		"vigas de aço":             "steel beams",
		"estruturas metálicas":     "metal structures",
		"elementos estruturais":    "structural elements",
		"integridade estrutural":   "structural integrity",
		"segurança estrutural":     "structural safety",
		"inspeção estrutural":      "structural inspection",
		"monitoramento estrutural": "structural monitoring",
		"patologia estrutural":     "structural pathology",

		// Corrosion terms
		"corrosão":             "corrosion",
		"corrosão atmosférica": "atmospheric corrosion",
		"corrosão uniforme":    "uniform corrosion",
		"corrosão por pites":   "pitting corrosion",
		"corrosão galvânica":   "galvanic corrosion",
		"produtos de corrosão": "corrosion products",
		"processos corrosivos": "corrosive processes",
		"deterioração":         "deterioration",
		"oxidação":             "oxidation",
		"ferrugem":             "rust",

		// Inspection and testing
		"inspeção visual":         "visual inspection",
		"ensaios não destrutivos": "non-destructive testing",
		"detecção automatizada":   "automated detection",
		"monitoramento":           "monitoring",
		"avaliação":               "assessment",
		"diagnóstico":             "diagnosis",

		// Properties
		"propriedades mecânicas": "mechanical properties",
		"tensão de escoamento":   "yield strength",
		"tensão de ruptura":      "tensile strength",
		"resistência":            "strength",
		"ductilidade":            "ductility",
		"soldabilidade":          "weldability",
		"composição química":     "chemical composition",
		"microestrutura":         "microstructure",
	},

	DomainDeepLearning: {
		// Neural networks
		"redes neurais convolucionais": "convolutional neural networks",
		"redes neurais profundas":      "deep neural networks",
		"aprendizado profundo":         "deep learning",
		"inteligência artificial":      "artificial intelligence",
		"visão computacional":          "computer vision",
		"processamento de imagens":     "image processing",

		// Architectures
		"U-Net":                 "U-Net",
		"Attention U-Net":       "Attention U-Net",
		"arquitetura":           "architecture",
		"mecanismos de atenção": "attention mechanisms",

		// Training and optimization
		"treinamento":         "training",
		"otimização":          "optimization",
		"otimizador":          "optimizer",
		"função de perda":     "loss function",
		"taxa de aprendizado": "learning rate",
		"hiperparâmetros":     "hyperparameters",
		"épocas":              "epochs",
		"validação cruzada":   "cross-validation",
		"sobreajuste":         "overfitting",
		"regularização":       "regularization",

		// Data processing
		"pré-processamento":    "preprocessing",
		"augmentação de dados": "data augmentation",
		"normalização":         "normalization",
		"redimensionamento":    "resizing",
		"conjunto de dados":    "dataset",
		"anotação manual":      "manual annotation",
		"máscaras binárias":    "binary masks",
	},

	DomainSegmentation: {
		"segmentação semântica": "semantic segmentation",
		"Coeficiente Dice":      "Dice coefficient",
		"precisão":              "precision",
		"revocação":             "recall",
		"acurácia":              "accuracy",
		"especificidade":        "specificity",
		"sensibilidade":         "sensitivity",
		"verdadeiros positivos": "true positives",
		"falsos positivos":      "false positives",
		"verdadeiros negativos": "true negatives",
		"falsos negativos":      "false negatives",
		"matriz de confusão":    "confusion matrix",
		"curva ROC":             "ROC curve",
		"área sob a curva":      "area under the curve",
	},

	DomainStatistics: {
		"análise estatística":    "statistical analysis",
		"teste t de Student":     "Student's t-test",
		"teste de significância": "significance test",
		"intervalo de confiança": "confidence interval",
		"nível de significância": "significance level",
		"valor p":                "p-value",
		"hipótese nula":          "null hypothesis",
		"hipótese alternativa":   "alternative hypothesis",
		"média":                  "mean",
		"desvio padrão":          "standard deviation",
		"mediana":                "median",
		"quartis":                "quartiles",
		"distribuição normal":    "normal distribution",
		"correlação":             "correlation",
		"regressão":              "regression",
	},

	DomainAcademicWriting: {
		// Document structure
		"resumo":                "abstract",
		"palavras-chave":        "keywords",
		"introdução":            "introduction",
		"revisão da literatura": "literature review",
		"metodologia":           "methodology",
		"resultados":            "results",
		"discussão":             "discussion",
		"conclusões":            "conclusions",
		"referências":           "references",
		"bibliografia":          "bibliography",

		// Academic terms
		"objetivo geral":         "general objective",
		"objetivos específicos":  "specific objectives",
		"justificativa":          "rationale",
		"relevância científica":  "scientific relevance",
		"contribuição":           "contribution",
		"limitações":             "limitations",
		"trabalhos futuros":      "future work",
		"estado da arte":         "state of the art",
		"lacuna de conhecimento": "knowledge gap",

		// Research terms
		"pesquisa":               "research",
		"estudo":                 "study",
		"investigação":           "investigation",
		"experimento":            "experiment",
		"protocolo experimental": "experimental protocol",
		"procedimento":           "procedure",
		"método":                 "method",
		"abordagem":              "approach",
		"técnica":                "technique",
		"ferramenta":             "tool",
	},

	DomainFiguresTables: {
		"Figura":     "Figure",
		"Tabela":     "Table",
		"Gráfico":    "Graph",
		"Diagrama":   "Diagram",
		"Fluxograma": "Flowchart",
		"Esquema":    "Scheme",

		"arquitetura da rede":          "network architecture",
		"fluxograma da metodologia":    "methodology flowchart",
		"comparação de segmentações":   "segmentation comparison",
		"curvas de aprendizado":        "learning curves",
		"mapas de atenção":             "attention maps",
		"características do dataset":   "dataset characteristics",
		"configurações de treinamento": "training configurations",
		"resultados quantitativos":     "quantitative results",
		"análise computacional":        "computational analysis",
	},

	// Abbreviations and acronyms pass through unchanged; they exist so bulk
	// scans can confirm their canonical forms survived translation.
	DomainAbbreviations: {
		"CNN":   "CNN",
		"GPU":   "GPU",
		"CPU":   "CPU",
		"RAM":   "RAM",
		"RGB":   "RGB",
		"JPEG":  "JPEG",
		"TIFF":  "TIFF",
		"PDF":   "PDF",
		"LaTeX": "LaTeX",
		"ASTM":  "ASTM",
		"ISO":   "ISO",
		"AISC":  "AISC",
		"CUDA":  "CUDA",
		"cuDNN": "cuDNN",
	},

	DomainUnits: {
		"pixels":     "pixels",
		"megapixels": "megapixels",
		"bits":       "bits",
		"bytes":      "bytes",
		"MB":         "MB",
		"GB":         "GB",
		"Hz":         "Hz",
		"MHz":        "MHz",
		"GHz":        "GHz",
		"MPa":        "MPa",
		"ksi":        "ksi",
		"mm":         "mm",
		"cm":         "cm",
		"kg":         "kg",
		"segundos":   "seconds",
		"minutos":    "minutes",
		"horas":      "hours",
		"graus":      "degrees",
	},
}
