package rag

// contextualizePrompt turns a history-dependent question into a standalone
// one. It must reformulate only, never answer.
const contextualizePrompt = "Given a chat history and the latest user question " +
	"which might reference context in the chat history, " +
	"formulate a standalone question which can be understood " +
	"without the chat history. Do NOT answer the question, " +
	"just reformulate it if needed and otherwise return it as is."

// qaPrompt constrains the answer to the retrieved context. The %s verb takes
// the concatenated chunk contents.
const qaPrompt = "You are an assistant for question-answering tasks. " +
	"Use the following pieces of retrieved context to answer the question. " +
	"If you don't know the answer based on the context, just say that you don't know. " +
	"Keep your answers concise and based *only* on the provided context. " +
	"Do not add information that is not present in the context.\n\n" +
	"Context:\n%s"
