package app

// Topics groups the AWS services and certifications the tutor covers.
var Topics = map[string][]string{
	"ai_services": {
		"Amazon SageMaker",
		"Amazon Bedrock",
		"Amazon Comprehend",
		"Amazon Rekognition",
		"Amazon Textract",
		"Amazon Lex",
		"Amazon Personalize",
	},
	"ml_infrastructure": {
		"SageMaker Studio",
		"SageMaker Training",
		"SageMaker Inference",
		"SageMaker Feature Store",
	},
	"certifications": {
		"AWS Certified AI Practitioner",
		"AWS Certified Machine Learning - Specialty",
	},
}
