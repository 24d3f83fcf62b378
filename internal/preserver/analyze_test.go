package preserver

import (
	"strings"
	"testing"
)

const sampleDocument = `\documentclass[12pt]{article}
\newcommand{\mpa}{MPa}
\title{Detecção de Corrosão}
\author{Silva, J.}
\begin{document}
\section{Introdução}
A corrosão foi estudada \cite{smith2020,jones2019}.
\subsection{Contexto}
\begin{figure}
\caption{Arquitetura da rede}
\label{fig:arch}
\end{figure}
\begin{table}
\caption{Resultados}
\end{table}
\begin{equation}
IoU = \frac{TP}{TP+FP+FN}
\end{equation}
\section{Metodologia}
See \ref{fig:arch} and \cite{smith2020}.
\bibitem{smith2020} Smith, A.
\bibitem{jones2019} Jones, B.
\end{document}`

func TestAnalyze(t *testing.T) {
	p := NewStructurePreserver()
	s := p.Analyze(sampleDocument)

	if !s.HasPreamble || s.DocumentClass != "article" {
		t.Errorf("preamble not detected: %+v", s)
	}
	if s.Title != "Detecção de Corrosão" {
		t.Errorf("Title = %q", s.Title)
	}
	if s.Author != "Silva, J." {
		t.Errorf("Author = %q", s.Author)
	}

	wantSections := []string{"Introdução", "Contexto", "Metodologia"}
	if len(s.Sections) != len(wantSections) {
		t.Fatalf("Sections = %v, want %v", s.Sections, wantSections)
	}
	for i, w := range wantSections {
		if s.Sections[i] != w {
			t.Errorf("Sections[%d] = %q, want %q", i, s.Sections[i], w)
		}
	}

	if len(s.Figures) != 1 || s.Figures[0] != "fig:arch" {
		t.Errorf("Figures = %v, want [fig:arch] (label wins over caption)", s.Figures)
	}
	if len(s.Tables) != 1 || s.Tables[0] != "Resultados" {
		t.Errorf("Tables = %v, want caption fallback [Resultados]", s.Tables)
	}
	if len(s.Equations) != 1 {
		t.Errorf("Equations = %v, want one", s.Equations)
	}

	wantCitations := []string{"smith2020", "jones2019", "smith2020"}
	if len(s.Citations) != len(wantCitations) {
		t.Fatalf("Citations = %v, want %v", s.Citations, wantCitations)
	}
	if len(s.References) != 2 {
		t.Errorf("References = %v, want two bibitems", s.References)
	}
	if len(s.Commands) != 1 || s.Commands[0] != "mpa" {
		t.Errorf("Commands = %v, want [mpa]", s.Commands)
	}
}

func TestAnalyzeEmptyCategories(t *testing.T) {
	p := NewStructurePreserver()
	s := p.Analyze("Plain prose with no structure at all.")

	counts := s.Counts()
	for category, n := range counts {
		if n != 0 {
			t.Errorf("%s = %d, want 0", category, n)
		}
	}
	if s.HasPreamble {
		t.Error("no preamble expected")
	}
}

func TestValidateIntegrityFigureCountMismatch(t *testing.T) {
	p := NewStructurePreserver()

	figure := "\\begin{figure}\n\\caption{c}\n\\end{figure}\n"
	original := strings.Repeat(figure, 3)
	translated := strings.Repeat(figure, 2)

	report := p.ValidateIntegrity(original, translated)

	if report.StructurePreserved {
		t.Fatal("structure_preserved should be false")
	}
	found := false
	for _, issue := range report.Issues {
		if issue == "figures count mismatch: 3 vs 2" {
			found = true
		}
	}
	if !found {
		t.Errorf("want issue naming 3 vs 2, got %v", report.Issues)
	}
}

func TestValidateIntegrityCitationIdentifierDrift(t *testing.T) {
	p := NewStructurePreserver()

	original := `As shown \cite{silva2021}.`
	translated := `As shown \cite{silva2012}.`

	report := p.ValidateIntegrity(original, translated)

	// Counts match (one each) but the identifier sets differ.
	if report.StructurePreserved {
		t.Fatal("identifier drift must fail integrity")
	}

	var lost, invented bool
	for _, issue := range report.Issues {
		if issue == `citation "silva2021" missing from translation` {
			lost = true
		}
		if issue == `citation "silva2012" not present in original` {
			invented = true
		}
	}
	if !lost || !invented {
		t.Errorf("want lost and invented identifier issues, got %v", report.Issues)
	}
}

func TestValidateIntegrityMatchingDocuments(t *testing.T) {
	p := NewStructurePreserver()

	original := sampleDocument
	translated := strings.ReplaceAll(sampleDocument, "A corrosão foi estudada", "Corrosion was studied")

	report := p.ValidateIntegrity(original, translated)
	if !report.StructurePreserved {
		t.Errorf("structure should be preserved, issues: %v", report.Issues)
	}
	if len(report.Issues) != 0 {
		t.Errorf("no issues expected, got %v", report.Issues)
	}
}
