package config

// builtinDemos is the demo gallery shipped with the binary. Config
// files can replace it with their own [[demo]] tables.
var builtinDemos = []Demo{
	{
		Name:        "ml-pipeline",
		Style:       "pipeline",
		Description: "Raw Data -> Preprocessing -> Feature Extraction -> Model Training -> Evaluation",
		Purpose:     "A classic machine learning pipeline from data to evaluation.",
	},
	{
		Name:        "transformer",
		Style:       "architecture",
		Description: "Input Embedding -> Encoder[Attention,FFN] -> Decoder[Attention,FFN] -> Output Projection",
		Purpose:     "The layered architecture of an encoder-decoder transformer.",
	},
	{
		Name:        "training-loop",
		Style:       "flowchart",
		Description: "Initialize -> Train Epoch -> Converged? -> Yes: Save Model, No: Adjust LR -> Train Epoch",
		Purpose:     "A training loop with a convergence decision and branch outcomes.",
	},
	{
		Name:        "rag",
		Style:       "pipeline",
		Description: "Query -> Retriever[BM25,Dense] -> Reranker -> LLM -> Answer",
		Purpose:     "Retrieval-augmented generation from query to answer.",
	},
}
