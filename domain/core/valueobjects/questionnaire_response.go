package valueobjects

import "time"

// QuestionnaireResponse is a set of answers already validated against a questionnaire schema
type QuestionnaireResponse struct {
	ID                   string                 `json:"id" dynamodbav:"id"`
	QuestionnaireName    string                 `json:"questionnaire_name" dynamodbav:"questionnaire_name"`
	QuestionnaireVersion string                 `json:"questionnaire_version" dynamodbav:"questionnaire_version"`
	Data                 map[string]interface{} `json:"data" dynamodbav:"data"`
	CreatedOn            time.Time              `json:"created_on" dynamodbav:"created_on"`
}

// QuestionnaireID is the "{name}/{version}" key responses are grouped under
func (r QuestionnaireResponse) QuestionnaireID() string {
	return QuestionnaireID(r.QuestionnaireName, r.QuestionnaireVersion)
}

// QuestionnaireID formats a questionnaire name and version
func QuestionnaireID(name, version string) string {
	return name + "/" + version
}
