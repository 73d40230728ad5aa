package ai

import (
	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/normalize"
)

// A small built-in table of Brazilian classics the external APIs
// often return in English editions or not at all. Matched by
// normalized title.
var brazilianBooks = []domain.BookRecord{
	{ISBN: "9788535902778", Title: "Dom Casmurro", Author: "Machado de Assis", Publisher: "Companhia das Letras", Genre: "Romance", Year: "1899"},
	{ISBN: "9788535910681", Title: "Memórias Póstumas de Brás Cubas", Author: "Machado de Assis", Publisher: "Companhia das Letras", Genre: "Romance", Year: "1881"},
	{ISBN: "9788503012508", Title: "Grande Sertão: Veredas", Author: "João Guimarães Rosa", Publisher: "Nova Fronteira", Genre: "Romance", Year: "1956"},
	{ISBN: "9788501076922", Title: "Vidas Secas", Author: "Graciliano Ramos", Publisher: "Record", Genre: "Romance", Year: "1938"},
	{ISBN: "9788535911664", Title: "A Hora da Estrela", Author: "Clarice Lispector", Publisher: "Rocco", Genre: "Romance", Year: "1977"},
	{ISBN: "9788525406262", Title: "Capitães da Areia", Author: "Jorge Amado", Publisher: "Companhia das Letras", Genre: "Romance", Year: "1937"},
	{ISBN: "9788503009508", Title: "O Cortiço", Author: "Aluísio Azevedo", Publisher: "Ática", Genre: "Romance", Year: "1890"},
	{ISBN: "9788508040392", Title: "Iracema", Author: "José de Alencar", Publisher: "Ática", Genre: "Romance", Year: "1865"},
	{ISBN: "9788594318602", Title: "O Quinze", Author: "Rachel de Queiroz", Publisher: "José Olympio", Genre: "Romance", Year: "1930"},
	{ISBN: "9788503012293", Title: "Macunaíma", Author: "Mário de Andrade", Publisher: "Nova Fronteira", Genre: "Romance", Year: "1928"},
	{ISBN: "9788571644768", Title: "Quarto de Despejo", Author: "Carolina Maria de Jesus", Publisher: "Ática", Genre: "Biografia", Year: "1960"},
	{ISBN: "9788535914849", Title: "Torto Arado", Author: "Itamar Vieira Junior", Publisher: "Todavia", Genre: "Romance", Year: "2019"},
}

func lookupBrazilianBook(title string) (domain.BookRecord, bool) {
	want := normalize.Text(title)
	if want == "" {
		return domain.BookRecord{}, false
	}
	for _, book := range brazilianBooks {
		if normalize.Text(book.Title) == want {
			record := book
			record.Sources = []string{"Acervo Brasileiro"}
			return record, true
		}
	}
	return domain.BookRecord{}, false
}
