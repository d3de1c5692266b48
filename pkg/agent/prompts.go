package agent

// Transcript query templates, selected by keyword from the task description.
const (
	queryAI      = "What is management's outlook on AI and digital transformation?"
	queryOutlook = "What is management's forward-looking guidance and outlook?"
	queryRisks   = "What risks and challenges did management discuss?"
	queryGeneric = "What are the key themes and strategic focus areas discussed by management?"
)

// synthesisPromptTemplate builds the final synthesis prompt. Placeholders:
// task, combined tool output, tools_used JSON array.
const synthesisPromptTemplate = `Based on the following data about TCS, generate a comprehensive forecast.

Task: %s

Available Data:
%s

Generate a forecast as a JSON object with this exact structure:
{
    "summary": "2-3 sentence executive summary",
    "financial_trends": [
        {
            "metric": "Revenue/Profit/Margin",
            "trend": "increasing/decreasing/stable",
            "percentage_change": 5.2,
            "analysis": "Brief explanation"
        }
    ],
    "management_outlook": {
        "sentiment": "positive/negative/neutral",
        "key_statements": ["statement1", "statement2"],
        "strategic_focus": ["focus1", "focus2"]
    },
    "risks_and_opportunities": [
        {
            "type": "risk" or "opportunity",
            "description": "Clear description",
            "potential_impact": "high/medium/low"
        }
    ],
    "quarterly_forecast": "Detailed forecast for next quarter",
    "confidence_level": "high/medium/low",
    "data_sources_used": %s
}

Return ONLY the JSON object, no other text.`
