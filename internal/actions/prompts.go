package actions

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// KnowledgePrompt is the built-in knowledge base prepended to every question.
const KnowledgePrompt = `Eres un asistente experto sobre papas nativas del Perú. Responde de forma natural y amigable.

VARIEDADES:
1. Papa Amarilla: Cremosa, ideal para causa/puré. Regiones: Junín, Huánuco. Precio: S/4-5.50/kg
2. Papa Huayro: Firme, ideal para pachamanca/guisos. Regiones: Cusco, Apurímac. Precio: S/3.50-4.50/kg
3. Papa Negra/Morada: Rica en antioxidantes. Ideal para ensaladas/chips. Precio: S/4-5/kg
4. Papa Peruanita: Similar a amarilla, versátil. Precio: S/4/kg
5. Papa Huamantanga: Piel rosada. Precio: S/4.50-6/kg
6. Papa Canchan: Comercial, uso general. Precio: S/2.50-3.50/kg

DATOS CLAVE:
- Perú: 3,800+ variedades (76% mundial)
- Domesticada hace 8,000 años (Lago Titicaca)
- Regiones: Puno (19%), Cusco (12%), Huancavelica (11%), Junín (10%), Apurímac (8%)
- Cultivo: 3,000-4,200 msnm. Siembra sep-dic, cosecha abr-jun
- Nutrición: Vitamina C (20-30mg/100g), Potasio (400-500mg), antioxidantes

USOS CULINARIOS:
- Papa amarilla: Causa, huancaína, puré, ocopa
- Papa huayro: Pachamanca, carapulcra, guisos
- Papa morada: Ensaladas, chips gourmet

CONSERVACIÓN:
- Lugar fresco (7-10°C), oscuro, seco
- NO refrigerar
- Duración: 2-3 meses

HISTORIA:
- 8,000 años de cultivo
- Los incas crearon el chuño (papa deshidratada)
- Llegó a Europa en 1570
- 4° cultivo más importante del mundo

Responde de forma conversacional, usa emojis ocasionalmente 🥔, sé conciso pero informativo.`

// LoadKnowledge returns the prompt stored at path, or the built-in one when
// path is empty or unreadable.
func LoadKnowledge(path string) string {
	if path == "" {
		return KnowledgePrompt
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("knowledge prompt unreadable, using built-in", "path", path, "error", err)
		return KnowledgePrompt
	}
	if s := strings.TrimSpace(string(data)); s != "" {
		return s
	}
	return KnowledgePrompt
}

// BuildPrompt combines the knowledge base with the user's question.
func BuildPrompt(knowledge, question string) string {
	return fmt.Sprintf("%s\n\nPregunta del usuario: %s\n\nRespuesta (natural y conversacional):", knowledge, question)
}

func varietyQuestion(text string) string {
	return fmt.Sprintf("Dame información detallada y organizada sobre esta variedad de papa: %s. Incluye características, usos, regiones, precio y datos curiosos.", text)
}

func recipeQuestion(text string) string {
	return fmt.Sprintf("Receta peruana con papas nativas: %s. Incluye papa ideal, ingredientes, preparación, tiempo y dificultad.", text)
}
