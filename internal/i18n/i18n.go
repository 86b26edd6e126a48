package i18n

import "strings"

const defaultLang = "fr"

// User-facing messages keyed by error/notification code. French is the
// reference language; English is best-effort.
var messages = map[string]map[string]string{
	"fr": {
		"required":              "Requis",
		"designation_required":  "Veuillez entrer une désignation",
		"document_required":     "Veuillez entrer un nom de document",
		"type_required":         "Veuillez sélectionner un type",
		"name_required":         "Veuillez entrer un nom",
		"duplicate_equipment":   "Cet équipement est déjà dans la liste",
		"duplicate_danger":      "Ce danger est déjà dans la liste",
		"index_out_of_range":    "Élément introuvable",
		"step_not_found":        "Étape introuvable",
		"unknown_step_field":    "Champ d'étape inconnu",
		"invalid_direction":     "Déplacement invalide",
		"unsupported_media":     "Le fichier n'est pas une image",
		"photo_too_large":       "La photo est trop grande. Taille maximale: 2MB",
		"file_format_error":     "Format de fichier invalide",
		"storage_unavailable":   "Impossible de sauvegarder automatiquement. Utilisez le bouton Enregistrer.",
		"pdf_unavailable":       "Génération PDF indisponible. Utilisez l'impression du navigateur.",
		"references_sorted":     "Références triées par ordre alphabétique",
		"procedure_saved":       "Procédure enregistrée avec succès",
		"procedure_loaded":      "Procédure chargée avec succès",
		"procedure_cleared":     "Toutes les données ont été effacées",
		"invalid_json":          "Requête invalide",
		"method_not_allowed":    "Méthode non autorisée",
	},
	"en": {
		"required":              "Required",
		"designation_required":  "Please enter a designation",
		"document_required":     "Please enter a document name",
		"type_required":         "Please select a type",
		"name_required":         "Please enter a name",
		"duplicate_equipment":   "This equipment is already in the list",
		"duplicate_danger":      "This hazard is already in the list",
		"index_out_of_range":    "Item not found",
		"step_not_found":        "Step not found",
		"unknown_step_field":    "Unknown step field",
		"invalid_direction":     "Invalid move",
		"unsupported_media":     "The file is not an image",
		"photo_too_large":       "The photo is too large. Maximum size: 2MB",
		"file_format_error":     "Invalid file format",
		"storage_unavailable":   "Automatic save failed. Use the export button.",
		"pdf_unavailable":       "PDF generation unavailable. Use the browser print dialog.",
		"references_sorted":     "References sorted alphabetically",
		"procedure_saved":       "Procedure saved successfully",
		"procedure_loaded":      "Procedure loaded successfully",
		"procedure_cleared":     "All data has been cleared",
		"invalid_json":          "Invalid request",
		"method_not_allowed":    "Method not allowed",
	},
}

// DetectLanguage maps an Accept-Language header value to a supported
// language, defaulting to French.
func DetectLanguage(accept string) string {
	accept = strings.ToLower(strings.TrimSpace(accept))
	if strings.HasPrefix(accept, "en") {
		return "en"
	}
	return defaultLang
}

// T translates a message code. Unknown languages fall back to French;
// unknown codes fall back to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[defaultLang][code]; ok {
		return s
	}
	return code
}
