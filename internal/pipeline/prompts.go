package pipeline

import "fmt"

const visualPrompt = "Describe this image, including any visible text. " +
	"The image is one slide of a startup pitch deck."

const offeringPrompt = `You are reviewing a startup pitch deck. The deck is described page by page below.

%s

Based on these descriptions, write exactly one short sentence describing the product or service the startup offers. Do not mention the company name or any product names.`

// topicQuestions carries the review question each chapter narrative answers.
var topicQuestions = map[string]string{
	"problem":            "Which problem do the founders address, who has this problem, and how painful is it for those affected?",
	"solution":           "What solution do the founders propose and how does it solve the described problem better than existing alternatives?",
	"product-market-fit": "What evidence of product-market fit is presented, such as traction, paying customers, pilots, or usage growth?",
	"monetisation":       "How does the startup earn money, what is the pricing model, and who pays?",
	"financials":         "What do the financials look like: current revenue, costs, burn rate, and runway?",
	"use-of-funds":       "How much funding is requested and how will it be used?",
	"organisation":       "Who is on the team, what relevant experience do the founders have, and what are the hiring plans?",
}

func chapterPrompt(topic, blob string) string {
	return fmt.Sprintf(`You are reviewing a startup pitch deck. The deck is described page by page below.

%s

Answer the following question based only on the deck: %s`, blob, topicQuestions[topic])
}

func scorePrompt(topic, blob string) string {
	return fmt.Sprintf(`You are reviewing a startup pitch deck. The deck is described page by page below.

%s

How much information does the deck provide to answer this question: %s

Respond with a single integer between 0 and 7, where 0 means no information at all and 7 means the question is answered completely. Respond with the number only.`, blob, topicQuestions[topic])
}

const hypothesesPrompt = `You are reviewing a startup pitch deck. The deck is described page by page below.

%s

List, as a numbered list, the core scientific, medical, or health-related hypotheses the startup's approach depends on. Exclude market-size claims and purely economic assumptions.`
