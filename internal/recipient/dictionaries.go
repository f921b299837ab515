package recipient

import "github.com/mikey/email-reconciler/internal/core"

// serviceLocalParts are role-account local parts, matched exactly and
// case-insensitively. Add locales here, not in the parsing code.
var serviceLocalParts = map[string]bool{
	// English
	"info": true, "sales": true, "support": true, "help": true, "helpdesk": true,
	"contact": true, "contacts": true, "admin": true, "administrator": true,
	"office": true, "billing": true, "accounts": true, "accounting": true,
	"invoice": true, "invoices": true, "orders": true, "order": true,
	"marketing": true, "newsletter": true, "news": true, "press": true,
	"hr": true, "jobs": true, "careers": true, "service": true, "services": true,
	"customerservice": true, "team": true, "hello": true, "mail": true,
	"noreply": true, "no-reply": true, "no_reply": true, "donotreply": true,
	"do-not-reply": true, "notifications": true, "notification": true,
	"alerts": true, "bounce": true, "bounces": true, "mailer-daemon": true,
	"postmaster": true, "webmaster": true, "hostmaster": true, "abuse": true,
	"security": true, "privacy": true, "legal": true, "purchasing": true,
	"procurement": true, "shipping": true, "logistics": true, "reception": true,
	"export": true, "import": true, "booking": true, "reservations": true,
	// Italian
	"vendite": true, "amministrazione": true, "contatti": true, "ufficio": true,
	"segreteria": true, "commerciale": true, "acquisti": true, "ordini": true,
	"fatture": true, "fatturazione": true, "contabilita": true, "assistenza": true,
	"spedizioni": true, "magazzino": true, "direzione": true, "produzione": true,
	"qualita": true, "personale": true, "ufficiotecnico": true, "tecnico": true,
	"pec": true, "posta": true, "cantina": true, "enoteca": true,
	// German
	"vertrieb": true, "kontakt": true, "verkauf": true, "buchhaltung": true,
	"rechnung": true, "rechnungen": true, "bestellung": true, "bestellungen": true,
	"einkauf": true, "kundenservice": true, "kundendienst": true, "versand": true,
	"zentrale": true, "verwaltung": true, "personalabteilung": true, "presse": true,
	// French / Spanish
	"ventes": true, "comptabilite": true, "commandes": true, "ventas": true,
	"contacto": true, "pedidos": true, "facturacion": true, "administracion": true,
}

// honorifics maps a normalized title token (lowercase, no trailing dot) to
// the genre it implies. GenreNone marks gender-neutral titles.
var honorifics = map[string]core.Genre{
	// English
	"mr": core.GenreMr, "mister": core.GenreMr, "sir": core.GenreMr,
	"mrs": core.GenreMs, "ms": core.GenreMs, "miss": core.GenreMs, "mme": core.GenreMs,
	"dr": core.GenreNone, "prof": core.GenreNone, "professor": core.GenreNone,
	// German
	"herr": core.GenreMr, "frau": core.GenreMs, "hr": core.GenreMr, "fr": core.GenreMs,
	// Italian
	"sig": core.GenreMr, "sig.ra": core.GenreMs, "sig.na": core.GenreMs, "sigra": core.GenreMs,
	"signor": core.GenreMr, "signore": core.GenreMr, "signora": core.GenreMs,
	"signorina": core.GenreMs, "dott": core.GenreNone, "dott.ssa": core.GenreMs,
	"dottssa": core.GenreMs, "dr.ssa": core.GenreMs, "ing": core.GenreNone,
	"avv": core.GenreNone, "geom": core.GenreNone, "rag": core.GenreNone,
	// French / Spanish
	"monsieur": core.GenreMr, "madame": core.GenreMs,
	"mlle": core.GenreMs, "sr": core.GenreMr, "sra": core.GenreMs, "srta": core.GenreMs,
}

// legalSuffixes are legal-entity tokens, normalized to lowercase without dots
var legalSuffixes = map[string]bool{
	"srl": true, "srls": true, "spa": true, "sas": true, "snc": true, "sapa": true,
	"scarl": true, "scrl": true, "coop": true, "onlus": true,
	"gmbh": true, "ag": true, "kg": true, "ohg": true, "ug": true, "ev": true,
	"inc": true, "corp": true, "corporation": true, "llc": true, "ltd": true,
	"limited": true, "plc": true, "llp": true, "lp": true, "co": true, "company": true,
	"sa": true, "sarl": true, "bv": true, "nv": true, "ab": true, "oy": true, "as": true,
	"sl": true, "sau": true, "pty": true, "kft": true, "sro": true,
}

// nonPersonalWords mark a display string as naming a function or organization
var nonPersonalWords = map[string]bool{
	"team": true, "support": true, "service": true, "services": true,
	"customer": true, "customers": true, "department": true, "dept": true,
	"office": true, "staff": true, "newsletter": true, "notifications": true,
	"noreply": true, "no-reply": true, "sales": true, "info": true, "admin": true,
	"helpdesk": true, "group": true, "international": true, "holding": true,
	"ufficio": true, "servizio": true, "servizi": true, "amministrazione": true,
	"vendite": true, "commerciale": true, "segreteria": true, "assistenza": true,
	"cantina": true, "cantine": true, "azienda": true, "agricola": true,
	"societa": true, "abteilung": true, "kundenservice": true, "vertrieb": true,
	"buchhaltung": true, "weingut": true,
}

// nameParticles stay lowercase unless they open the name
var nameParticles = map[string]bool{
	"van": true, "der": true, "den": true, "di": true, "von": true, "de": true,
	"la": true, "le": true, "del": true, "della": true, "da": true, "dos": true,
	"das": true, "du": true, "ten": true, "ter": true, "zu": true,
}

// IsNameParticle reports whether a lowercase word is a surname particle
func IsNameParticle(word string) bool {
	return nameParticles[word]
}

// IsLegalSuffix reports whether a token such as "S.r.l." or "GmbH" marks a
// legal entity
func IsLegalSuffix(word string) bool {
	return legalSuffixes[legalKey(word)]
}
