package usecase

import (
	"fmt"

	"github.com/X1ag/RideBoard/internal/domain"
)

// User-facing copy. The bot talks Romanian.
const (
	msgGreeting       = "Bună!\nAlege direcția sau caută anunțuri existente:"
	msgSearchHint     = "Scrie cuvinte-cheie (ex: Chișinău Berlin decembrie)"
	msgDatePrompt     = "Direcție: %s\n\nScrie data aproximativă (ex: 25 decembrie, 10-15 ianuarie, săptămâna viitoare):"
	msgDateEmpty      = "Scrie data aproximativă (ex: 25 decembrie):"
	msgRoutePrompt    = "Scrie ruta exactă, cu săgeată:\nEx: Chișinău → München"
	msgRouteNoArrow   = "Te rog folosește săgeata → între orașe!"
	msgRouteEmptyCity = "Scrie ambele orașe, ex: Chișinău → München"
	msgSeatsPrompt    = "Câte locuri ai libere sau cauți? (ex: 2)"
	msgSeatsInvalid   = "Scrie un număr valid între 1 și 8"
	msgPhonePrompt    = "Număr de telefon (va fi vizibil celor interesați)\nSau apasă butonul să-l ascunzi:"
	msgPublished      = "Anunțul tău e publicat!\n\nDirecție: %s\nData: %s\nRuta: %s → %s\nLocuri: %d\nTelefon: %s"
	msgSaveFailed     = "Ceva n-a mers bine, anunțul nu a fost salvat. Trimite din nou telefonul sau apasă butonul."
	msgNoSession      = "Scrie /start ca să publici un anunț."
	msgListingHeader  = "Ultimele anunțuri:"
	msgListingEmpty   = "Încă nu sunt anunțuri."
	msgSearchEmpty    = "Nu am găsit anunțuri pentru: %s"
	msgListingFailed  = "Nu pot încărca anunțurile acum, încearcă mai târziu."

	labelSearch    = "Caută anunțuri"
	labelHidePhone = "Ascund telefonul"

	postingDivider = "────────────"
	anonymous      = "anonim"
)

func startChoices() []domain.Choice {
	choices := make([]domain.Choice, 0, 3)
	for _, d := range domain.Directions() {
		choices = append(choices, domain.Choice{Label: d.Label(), Data: string(d)})
	}
	return append(choices, domain.Choice{Label: labelSearch, Data: domain.ButtonSearch})
}

func phoneChoices() []domain.Choice {
	return []domain.Choice{{Label: labelHidePhone, Data: domain.ButtonNoPhone}}
}

func textReply(text string) domain.Reply {
	return domain.Reply{Text: text}
}

func textReplyf(format string, args ...any) domain.Reply {
	return domain.Reply{Text: fmt.Sprintf(format, args...)}
}
