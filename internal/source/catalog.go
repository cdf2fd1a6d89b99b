package source

// Target is one documentation page to fetch for a service.
type Target struct {
	Service string
	URL     string
}

// DocumentationTargets lists the AWS AI/ML pages used in live-fetch mode.
var DocumentationTargets = []Target{
	{Service: "sagemaker", URL: "https://docs.aws.amazon.com/sagemaker/latest/dg/whatis.html"},
	{Service: "sagemaker", URL: "https://docs.aws.amazon.com/sagemaker/latest/dg/how-it-works.html"},
	{Service: "sagemaker", URL: "https://docs.aws.amazon.com/sagemaker/latest/dg/sagemaker-projects.html"},
	{Service: "bedrock", URL: "https://docs.aws.amazon.com/bedrock/latest/userguide/what-is-bedrock.html"},
	{Service: "bedrock", URL: "https://docs.aws.amazon.com/bedrock/latest/userguide/getting-started.html"},
	{Service: "comprehend", URL: "https://docs.aws.amazon.com/comprehend/latest/dg/what-is.html"},
	{Service: "rekognition", URL: "https://docs.aws.amazon.com/rekognition/latest/dg/what-is.html"},
	{Service: "textract", URL: "https://docs.aws.amazon.com/textract/latest/dg/what-is.html"},
	{Service: "lex", URL: "https://docs.aws.amazon.com/lex/latest/dg/what-is.html"},
	{Service: "personalize", URL: "https://docs.aws.amazon.com/personalize/latest/dg/what-is-personalize.html"},
}
