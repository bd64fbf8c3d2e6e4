package engine

// SystemMessage sets the role of the reasoning engine.
const SystemMessage = "You are an expert insurance claim analyst. Analyze insurance claims based on policy rules."

// Prompt is the fixed instruction sent with every claim. The output template
// at the end is what the decision package parses.
const Prompt = `Analyze this insurance claim submission carefully:

1. First, extract all relevant rules and coverage criteria from the POLICY document
2. Review the CLAIM form for what is being claimed
3. Verify the BILLS for amounts and medical procedures
4. Cross-check DOCTOR NOTES for medical necessity and diagnosis
5. Determine if the claim should PASS or FAIL based on policy rules

Provide your response in this exact format:

DECISION: [PASS or FAIL]

REASONING:
[Detailed explanation of why the claim passes or fails, referencing specific policy rules and evidence from the documents]

CONFIDENCE: [percentage, e.g., 85%]`
